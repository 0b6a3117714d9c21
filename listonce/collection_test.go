package listonce

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pagedListings = `{"listings":[{"id":1},{"id":2}],"total_listings":5,"page":1,"total_pages":3,"per_page":2}`

func TestListingCollection(t *testing.T) {
	req := &Request{Method: "GET", Function: "search-listings"}
	c, err := MakeCollection(decode(t, pagedListings), req, "Listing")
	require.NoError(t, err)

	assert.Equal(t, "Listing", c.DataType())
	assert.Same(t, req, c.Request())
	assert.Equal(t, 2, c.Len())

	first, err := c.At(0)
	require.NoError(t, err)
	id, err := first.Int("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Listing", first.DataType())
	assert.Same(t, req, first.Request())

	p, err := c.Pagination()
	require.NoError(t, err)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 3, TotalEntities: 5, PerPage: 2}, p)
	assert.True(t, p.HasMorePages())
	assert.True(t, c.HasPagination())
}

func TestCollectionPaginationDefaults(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"listings":[{"id":1}]}`), nil, "Listing")
	require.NoError(t, err)

	p, err := c.Pagination()
	require.NoError(t, err)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 1, TotalEntities: 0, PerPage: 0}, p)
	assert.False(t, p.HasMorePages())
}

func TestCollectionPaginationValue(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	tests := []struct {
		key  string
		want int
	}{
		{key: PaginationCurrentPage, want: 1},
		{key: PaginationTotalPages, want: 3},
		{key: PaginationTotalEntities, want: 5},
		{key: PaginationPerPage, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, err := c.PaginationValue(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	_, err = c.PaginationValue("offset")
	assert.ErrorIs(t, err, ErrInvalidPaginationKey)
}

func TestCollectionUnsupportedPagination(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"agents":[{"name":"Jo"}],"page":2}`), nil, "Agent")
	require.NoError(t, err)

	assert.False(t, c.HasPagination())
	_, err = c.Pagination()
	assert.ErrorIs(t, err, ErrUnsupportedPagination)
	_, err = c.PaginationValue(PaginationCurrentPage)
	assert.ErrorIs(t, err, ErrUnsupportedPagination)
}

func TestCollectionErrorMarker(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"error_message":"bad key"}`), nil, "Listing")
	assert.Nil(t, c)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad key", apiErr.Message)
}

func TestCollectionRequiresDataType(t *testing.T) {
	_, err := MakeCollection(decode(t, pagedListings), nil, "")
	assert.ErrorIs(t, err, ErrMissingDataType)
}

func TestCollectionExtraction(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		dataType string
		wantLen  int
	}{
		{name: "missing property", body: `{"total_listings":0}`, dataType: "Listing", wantLen: 0},
		{name: "null property", body: `{"listings":null}`, dataType: "Listing", wantLen: 0},
		{name: "object property", body: `{"agents":{"a":{"id":1},"b":{"id":2}}}`, dataType: "Agent", wantLen: 2},
		{name: "scalar property", body: `{"floorplans":"plan.pdf"}`, dataType: "Floorplan", wantLen: 1},
		{name: "whole payload object", body: `{"b":{"id":2},"a":{"id":1},"c":{"id":3}}`, dataType: "Suburb", wantLen: 3},
		{name: "whole payload array", body: `["Bondi","Manly"]`, dataType: "Suburb", wantLen: 2},
		{name: "featured listings", body: `{"featured_listings":[{"id":9}]}`, dataType: "FeaturedListing", wantLen: 1},
		{name: "external links", body: `{"external_links":[{"url":"x"},{"url":"y"}]}`, dataType: "ExternalLink", wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := MakeCollection(decode(t, tt.body), nil, tt.dataType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestCollectionWholePayloadKeepsOrder(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"b":{"id":2},"a":{"id":1},"c":{"id":3}}`), nil, "Office")
	require.NoError(t, err)

	assert.Equal(t, "Office", c.DataType())
	assert.False(t, c.HasPagination())

	var ids []int64
	for e, err := range c.All() {
		require.NoError(t, err)
		id, err := e.Int("id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{2, 1, 3}, ids)
}

func TestFeaturedListingsAreListings(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"featured_listings":[{"id":9}],"total_listings":1}`), nil, "FeaturedListing")
	require.NoError(t, err)

	assert.Equal(t, "Listing", c.DataType())
	e, err := c.At(0)
	require.NoError(t, err)
	assert.Equal(t, "Listing", e.DataType())

	v, err := c.PaginationValue(PaginationTotalEntities)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestCollectionIndexOutOfRange(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	for _, index := range []int{-1, 2, 100} {
		_, err := c.At(index)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)

		var rangeErr *IndexOutOfRangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, index, rangeErr.Index)
		assert.Equal(t, 2, rangeErr.Len)
	}

	assert.True(t, c.Has(1))
	assert.False(t, c.Has(2))
	assert.False(t, c.Has(-1))
}

func TestCollectionIteratorRewind(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	it := c.Iterator()
	assert.Equal(t, -1, it.Index())

	var first []*Entity
	for it.Next() {
		first = append(first, it.Entity())
	}
	require.NoError(t, it.Err())
	assert.False(t, it.Next())
	assert.Nil(t, it.Entity())

	it.Rewind()
	var second []*Entity
	for it.Next() {
		second = append(second, it.Entity())
	}
	require.NoError(t, it.Err())

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.NotSame(t, first[i], second[i])
		assert.Equal(t, first[i].Value(), second[i].Value())
	}
}

func TestCollectionAtBuildsFreshEntities(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	a, err := c.At(0)
	require.NoError(t, err)
	b, err := c.At(0)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Value(), b.Value())
}

func TestCollectionAllStopsEarly(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"listings":[{"id":1},{"id":2},{"id":3}]}`), nil, "Listing")
	require.NoError(t, err)

	seen := 0
	for range c.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	all, err := c.Entities()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCollectionElementErrorStopsIteration(t *testing.T) {
	c, err := MakeCollection(decode(t, `{"listings":[{"id":1},{"error_message":"withdrawn"},{"id":3}]}`), nil, "Listing")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	it := c.Iterator()
	assert.True(t, it.Next())
	assert.False(t, it.Next())

	var apiErr *APIError
	require.True(t, errors.As(it.Err(), &apiErr))
	assert.Equal(t, "withdrawn", apiErr.Message)

	_, err = c.Entities()
	assert.True(t, errors.As(err, &apiErr))
}

func TestCollectionImmutable(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	e, err := c.At(1)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Set(0, e), ErrImmutableCollection)
	assert.ErrorIs(t, c.Delete(0), ErrImmutableCollection)

	assert.Equal(t, 2, c.Len())
	first, err := c.At(0)
	require.NoError(t, err)
	id, err := first.Int("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCollectionCustomVariant(t *testing.T) {
	r := NewRegistry()
	r.RegisterCollection("Rental", CollectionVariant{
		EntityProperty:        "rentals",
		HasPagination:         true,
		TotalEntitiesProperty: "count",
		PageProperty:          "p",
		TotalPagesProperty:    "pages",
		PerPageProperty:       "size",
	})

	v, ok := r.CollectionVariant("Rental")
	require.True(t, ok)
	assert.Equal(t, "rentals", v.EntityProperty)

	c, err := r.MakeCollection(decode(t, `{"rentals":[{}],"count":10,"p":2,"pages":5,"size":1,"page":9}`), nil, "Rental")
	require.NoError(t, err)

	p, err := c.Pagination()
	require.NoError(t, err)
	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 5, TotalEntities: 10, PerPage: 1}, p)

	_, ok = r.CollectionVariant("Listing")
	assert.False(t, ok)
}

func TestCollectionMarshalJSON(t *testing.T) {
	c, err := MakeCollection(decode(t, pagedListings), nil, "Listing")
	require.NoError(t, err)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"dataType": "Listing",
		"pagination": {"currentPage":1,"totalPages":3,"totalEntities":5,"perPage":2},
		"entities": [{"id":1},{"id":2}]
	}`, string(out))

	agents, err := MakeCollection(decode(t, `{"agents":[]}`), nil, "Agent")
	require.NoError(t, err)
	out, err = json.Marshal(agents)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataType":"Agent","entities":[]}`, string(out))
}
