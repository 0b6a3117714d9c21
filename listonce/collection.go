package listonce

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Pagination keys accepted by Collection.PaginationValue.
const (
	PaginationCurrentPage   = "currentPage"
	PaginationTotalPages    = "totalPages"
	PaginationTotalEntities = "totalEntities"
	PaginationPerPage       = "perPage"
)

// Pagination is the page metadata of a paginated collection.
type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalEntities int `json:"totalEntities"`
	PerPage       int `json:"perPage"`
}

// HasMorePages reports whether pages remain after the current one.
func (p Pagination) HasMorePages() bool {
	return p.CurrentPage < p.TotalPages
}

// Collection is a read-only sequence of entities decoded from one payload.
// Entities are built on access; nothing is cached, so repeated reads of the
// same index return distinct Entity values wrapping equal data.
type Collection struct {
	registry   *Registry
	variant    CollectionVariant
	entities   []any
	pagination Pagination
	request    *Request
}

func newCollection(r *Registry, variant CollectionVariant, data any, req *Request) (*Collection, error) {
	if err := checkErrorMarkers(data); err != nil {
		return nil, err
	}

	c := &Collection{
		registry: r,
		variant:  variant,
		entities: extractEntities(data, variant.EntityProperty),
		request:  req,
	}
	if variant.HasPagination {
		obj, _ := data.(*Object)
		c.pagination = Pagination{
			CurrentPage:   intField(obj, variant.PageProperty, 1),
			TotalPages:    intField(obj, variant.TotalPagesProperty, 1),
			TotalEntities: intField(obj, variant.TotalEntitiesProperty, 0),
			PerPage:       intField(obj, variant.PerPageProperty, 0),
		}
	}
	return c, nil
}

// extractEntities returns the raw entity values. With no property the payload
// itself is coerced to a list; otherwise the named property is read and a
// missing property yields an empty list.
func extractEntities(data any, property string) []any {
	if property == "" {
		return valuesOf(data)
	}

	obj, ok := data.(*Object)
	if !ok || !obj.Has(property) {
		return []any{}
	}
	v, _ := obj.Get(property)
	return valuesOf(v)
}

func valuesOf(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	case *Object:
		return t.Values()
	default:
		return []any{t}
	}
}

// DataType returns the data type propagated to every produced entity.
func (c *Collection) DataType() string {
	return c.variant.DataType
}

// Request returns the request that produced the collection.
func (c *Collection) Request() *Request {
	return c.request
}

// Len returns the number of entities.
func (c *Collection) Len() int {
	return len(c.entities)
}

// Has reports whether index holds a non-null value.
func (c *Collection) Has(index int) bool {
	return index >= 0 && index < len(c.entities) && c.entities[index] != nil
}

// At builds the entity at index.
func (c *Collection) At(index int) (*Entity, error) {
	if index < 0 || index >= len(c.entities) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(c.entities)}
	}
	return c.registry.MakeEntity(c.entities[index], c.request, c.variant.DataType)
}

// Entities builds every entity in order.
func (c *Collection) Entities() ([]*Entity, error) {
	out := make([]*Entity, 0, len(c.entities))
	for e, err := range c.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// All iterates over the collection from the first entity. Iteration stops
// after the first construction error.
func (c *Collection) All() iter.Seq2[*Entity, error] {
	return func(yield func(*Entity, error) bool) {
		for i := range c.entities {
			e, err := c.At(i)
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// Iterator returns a restartable cursor positioned before the first entity.
func (c *Collection) Iterator() *Iterator {
	return &Iterator{c: c, index: -1}
}

// HasPagination reports whether the collection variant carries page metadata.
func (c *Collection) HasPagination() bool {
	return c.variant.HasPagination
}

// Pagination returns the page metadata.
func (c *Collection) Pagination() (Pagination, error) {
	if !c.variant.HasPagination {
		return Pagination{}, ErrUnsupportedPagination
	}
	return c.pagination, nil
}

// PaginationValue returns one pagination variable by key.
func (c *Collection) PaginationValue(key string) (int, error) {
	p, err := c.Pagination()
	if err != nil {
		return 0, err
	}
	switch key {
	case PaginationCurrentPage:
		return p.CurrentPage, nil
	case PaginationTotalPages:
		return p.TotalPages, nil
	case PaginationTotalEntities:
		return p.TotalEntities, nil
	case PaginationPerPage:
		return p.PerPage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPaginationKey, key)
	}
}

// Set always fails with ErrImmutableCollection.
func (c *Collection) Set(index int, e *Entity) error {
	return fmt.Errorf("set index %d: %w", index, ErrImmutableCollection)
}

// Delete always fails with ErrImmutableCollection.
func (c *Collection) Delete(index int) error {
	return fmt.Errorf("delete index %d: %w", index, ErrImmutableCollection)
}

type collectionJSON struct {
	DataType   string      `json:"dataType"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Entities   []any       `json:"entities"`
}

// MarshalJSON encodes the entities along with the data type and pagination.
func (c *Collection) MarshalJSON() ([]byte, error) {
	out := collectionJSON{
		DataType: c.variant.DataType,
		Entities: c.entities,
	}
	if c.variant.HasPagination {
		p := c.pagination
		out.Pagination = &p
	}
	return json.Marshal(out)
}

// Iterator walks a Collection. It can be rewound and reused.
//
//	it := coll.Iterator()
//	for it.Next() {
//		listing := it.Entity()
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type Iterator struct {
	c       *Collection
	index   int
	current *Entity
	err     error
}

// Next advances to the next entity.
func (it *Iterator) Next() bool {
	if it.err != nil || it.index+1 >= it.c.Len() {
		it.current = nil
		return false
	}
	it.index++
	e, err := it.c.At(it.index)
	if err != nil {
		it.err = err
		it.current = nil
		return false
	}
	it.current = e
	return true
}

// Entity returns the entity at the current position.
func (it *Iterator) Entity() *Entity {
	return it.current
}

// Index returns the current position, -1 before the first call to Next.
func (it *Iterator) Index() int {
	return it.index
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Rewind moves the iterator back before the first entity.
func (it *Iterator) Rewind() {
	it.index = -1
	it.current = nil
	it.err = nil
}
