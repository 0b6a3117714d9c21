package listonce

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `{
	"id": 1,
	"title": "Harbour views",
	"price": "450000",
	"bathrooms": 2.5,
	"featured": 1,
	"sold": "false",
	"agent": {"name": "Jo"},
	"photos": ["a.jpg", "b.jpg"],
	"notes": null
}`

func TestMakeEntity(t *testing.T) {
	req := &Request{Method: "GET", Function: "get-listing"}
	e, err := MakeEntity(decode(t, listingBody), req, "Listing")
	require.NoError(t, err)

	assert.Equal(t, "Listing", e.DataType())
	assert.Same(t, req, e.Request())
	assert.Equal(t, []string{"id", "title", "price", "bathrooms", "featured", "sold", "agent", "photos", "notes"}, e.Fields())

	v, err := e.Get("id")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), v)

	assert.True(t, e.Has("title"))
	assert.False(t, e.Has("notes"))
	assert.False(t, e.Has("missing"))

	notes, err := e.Get("notes")
	require.NoError(t, err)
	assert.Nil(t, notes)
}

func TestEntityFieldNotFound(t *testing.T) {
	e, err := MakeEntity(decode(t, listingBody), nil, "Listing")
	require.NoError(t, err)

	_, err = e.Get("suburb")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldNotFound)

	var notFound *FieldNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "suburb", notFound.Field)
	assert.Equal(t, "Listing", notFound.DataType)
}

func TestEntityTypedGetters(t *testing.T) {
	e, err := MakeEntity(decode(t, listingBody), nil, "Listing")
	require.NoError(t, err)

	id, err := e.Int("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	price, err := e.Int("price")
	require.NoError(t, err)
	assert.Equal(t, int64(450000), price)

	title, err := e.String("title")
	require.NoError(t, err)
	assert.Equal(t, "Harbour views", title)

	idText, err := e.String("id")
	require.NoError(t, err)
	assert.Equal(t, "1", idText)

	baths, err := e.Float("bathrooms")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, baths, 0.0001)

	featured, err := e.Bool("featured")
	require.NoError(t, err)
	assert.True(t, featured)

	sold, err := e.Bool("sold")
	require.NoError(t, err)
	assert.False(t, sold)

	agent, err := e.Object("agent")
	require.NoError(t, err)
	name, _ := agent.Get("name")
	assert.Equal(t, "Jo", name)

	photos, err := e.List("photos")
	require.NoError(t, err)
	assert.Equal(t, []any{"a.jpg", "b.jpg"}, photos)

	notes, err := e.String("notes")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestEntityTypedGetterErrors(t *testing.T) {
	e, err := MakeEntity(decode(t, listingBody), nil, "Listing")
	require.NoError(t, err)

	tests := []struct {
		name string
		read func() error
	}{
		{name: "int from text", read: func() error { _, err := e.Int("title"); return err }},
		{name: "int from fraction", read: func() error { _, err := e.Int("bathrooms"); return err }},
		{name: "float from object", read: func() error { _, err := e.Float("agent"); return err }},
		{name: "bool from text", read: func() error { _, err := e.Bool("title"); return err }},
		{name: "string from list", read: func() error { _, err := e.String("photos"); return err }},
		{name: "object from text", read: func() error { _, err := e.Object("title"); return err }},
		{name: "list from object", read: func() error { _, err := e.List("agent"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFieldType)
		})
	}

	_, err = e.Int("missing")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestEntityErrorMarkers(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "error message", body: `{"error_message":"bad key"}`, wantMsg: "bad key"},
		{name: "ERROR field", body: `{"ERROR":"denied","id":3}`, wantMsg: "denied"},
		{name: "empty error message", body: `{"error_message":"","id":3}`},
		{name: "null ERROR", body: `{"ERROR":null,"id":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := MakeEntity(decode(t, tt.body), nil, "Listing")
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, e)
				return
			}
			assert.Nil(t, e)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestEntityImmutable(t *testing.T) {
	e, err := MakeEntity(decode(t, `{"id":1}`), nil, "")
	require.NoError(t, err)

	assert.ErrorIs(t, e.Set("id", 2), ErrImmutableEntity)
	assert.ErrorIs(t, e.Unset("id"), ErrImmutableEntity)

	id, err := e.Int("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestEntityNonObjectValue(t *testing.T) {
	e, err := MakeEntity("Bondi", nil, "Suburb")
	require.NoError(t, err)

	assert.Equal(t, "Bondi", e.Value())
	assert.Empty(t, e.Fields())
	assert.False(t, e.Has("name"))

	_, err = e.Get("name")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `"Bondi"`, string(out))
}

func TestEntityArrayValueIsCopied(t *testing.T) {
	e, err := MakeEntity([]any{"a", "b"}, nil, "Suburb")
	require.NoError(t, err)

	e.Value().([]any)[0] = "changed"
	assert.Equal(t, []any{"a", "b"}, e.Value())
}

func TestEntityDecode(t *testing.T) {
	e, err := MakeEntity(decode(t, listingBody), nil, "Listing")
	require.NoError(t, err)

	var listing struct {
		ID     int      `json:"id"`
		Title  string   `json:"title"`
		Photos []string `json:"photos"`
		Agent  struct {
			Name string `json:"name"`
		} `json:"agent"`
	}
	require.NoError(t, e.Decode(&listing))

	assert.Equal(t, 1, listing.ID)
	assert.Equal(t, "Harbour views", listing.Title)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, listing.Photos)
	assert.Equal(t, "Jo", listing.Agent.Name)

	var wrong struct {
		Title int `json:"title"`
	}
	assert.Error(t, e.Decode(&wrong))
}

func TestEntityVariants(t *testing.T) {
	errNoPhoto := errors.New("agent has no photo")

	r := NewRegistry()
	r.RegisterEntity("Agent", EntityVariant{
		Required: []string{"agent_id"},
		Validate: func(e *Entity) error {
			if !e.Has("photo") {
				return errNoPhoto
			}
			return nil
		},
	})

	tests := []struct {
		name     string
		body     string
		dataType string
		wantErr  error
	}{
		{name: "valid agent", body: `{"agent_id":1,"photo":"p.jpg"}`, dataType: "Agent"},
		{name: "missing required field", body: `{"photo":"p.jpg"}`, dataType: "Agent", wantErr: ErrFieldNotFound},
		{name: "validate hook", body: `{"agent_id":1}`, dataType: "Agent", wantErr: errNoPhoto},
		{name: "error marker before variant checks", body: `{"error_message":"nope"}`, dataType: "Agent"},
		{name: "unregistered falls back", body: `{"anything":true}`, dataType: "Office"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.MakeEntity(decode(t, tt.body), nil, tt.dataType)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, e)
			case tt.name == "error marker before variant checks":
				var apiErr *APIError
				assert.True(t, errors.As(err, &apiErr))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.dataType, e.DataType())
			}
		})
	}
}
