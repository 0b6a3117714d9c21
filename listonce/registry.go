package listonce

import (
	"sync"
)

// Default pagination property names.
const (
	DefaultPageProperty       = "page"
	DefaultTotalPagesProperty = "total_pages"
	DefaultPerPageProperty    = "per_page"
)

// EntityVariant specialises entities of one data type.
type EntityVariant struct {
	// Required lists fields every entity of this type must carry.
	Required []string
	// Validate runs after the error-marker check.
	Validate func(e *Entity) error
}

// CollectionVariant describes where a payload keeps its entities and
// pagination metadata.
type CollectionVariant struct {
	// DataType tags the produced entities. Empty means the name the
	// collection was requested with.
	DataType string
	// EntityProperty holds the entity array. Empty means the payload's own
	// values are the entities.
	EntityProperty string
	HasPagination  bool
	// TotalEntitiesProperty holds the total entity count, e.g. total_listings.
	TotalEntitiesProperty string
	PageProperty          string
	TotalPagesProperty    string
	PerPageProperty       string
}

func (v CollectionVariant) withDefaults() CollectionVariant {
	if v.PageProperty == "" {
		v.PageProperty = DefaultPageProperty
	}
	if v.TotalPagesProperty == "" {
		v.TotalPagesProperty = DefaultTotalPagesProperty
	}
	if v.PerPageProperty == "" {
		v.PerPageProperty = DefaultPerPageProperty
	}
	return v
}

// Registry maps data type names to specialised variants. Names without a
// registered variant resolve to the generic Entity and Collection.
type Registry struct {
	mu          sync.RWMutex
	entities    map[string]EntityVariant
	collections map[string]CollectionVariant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities:    make(map[string]EntityVariant),
		collections: make(map[string]CollectionVariant),
	}
}

var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the registry holding the ListOnce collection variants.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterCollection("Listing", CollectionVariant{
		EntityProperty:        "listings",
		HasPagination:         true,
		TotalEntitiesProperty: "total_listings",
	})
	r.RegisterCollection("FeaturedListing", CollectionVariant{
		DataType:              "Listing",
		EntityProperty:        "featured_listings",
		HasPagination:         true,
		TotalEntitiesProperty: "total_listings",
	})
	r.RegisterCollection("Alert", CollectionVariant{
		EntityProperty:        "alerts",
		HasPagination:         true,
		TotalEntitiesProperty: "total_alerts",
	})
	r.RegisterCollection("Auction", CollectionVariant{
		EntityProperty:        "auctions",
		HasPagination:         true,
		TotalEntitiesProperty: "total_auctions",
	})
	r.RegisterCollection("InspectionTime", CollectionVariant{
		EntityProperty:        "inspection_times",
		HasPagination:         true,
		TotalEntitiesProperty: "total_inspection_times",
	})
	r.RegisterCollection("Agent", CollectionVariant{EntityProperty: "agents"})
	r.RegisterCollection("Floorplan", CollectionVariant{EntityProperty: "floorplans"})
	r.RegisterCollection("ExternalLink", CollectionVariant{EntityProperty: "external_links"})
	return r
}

// RegisterEntity registers or replaces the variant for dataType.
func (r *Registry) RegisterEntity(dataType string, v EntityVariant) {
	r.mu.Lock()
	r.entities[dataType] = v
	r.mu.Unlock()
}

// RegisterCollection registers or replaces the collection variant for
// dataType. It is stored under "<dataType>Collection".
func (r *Registry) RegisterCollection(dataType string, v CollectionVariant) {
	r.mu.Lock()
	r.collections[collectionName(dataType)] = v.withDefaults()
	r.mu.Unlock()
}

// EntityVariant returns the variant registered for dataType.
func (r *Registry) EntityVariant(dataType string) (EntityVariant, bool) {
	r.mu.RLock()
	v, ok := r.entities[dataType]
	r.mu.RUnlock()
	return v, ok
}

// CollectionVariant returns the collection variant registered for dataType.
func (r *Registry) CollectionVariant(dataType string) (CollectionVariant, bool) {
	r.mu.RLock()
	v, ok := r.collections[collectionName(dataType)]
	r.mu.RUnlock()
	return v, ok
}

// MakeEntity wraps one decoded value. Validation runs for the generic entity
// and for every registered variant.
func (r *Registry) MakeEntity(data any, req *Request, dataType string) (*Entity, error) {
	e, err := newEntity(data, req, dataType)
	if err != nil {
		return nil, err
	}

	variant, ok := r.EntityVariant(dataType)
	if !ok {
		return e, nil
	}
	for _, field := range variant.Required {
		if !e.Has(field) {
			return nil, &FieldNotFoundError{Field: field, DataType: dataType}
		}
	}
	if variant.Validate != nil {
		if err := variant.Validate(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MakeCollection wraps a decoded payload holding zero or more entities.
// dataType is required; unregistered names get a generic, non-paginated
// collection over the payload's own values.
func (r *Registry) MakeCollection(data any, req *Request, dataType string) (*Collection, error) {
	if dataType == "" {
		return nil, ErrMissingDataType
	}

	variant, ok := r.CollectionVariant(dataType)
	if !ok {
		variant = CollectionVariant{}.withDefaults()
	}
	if variant.DataType == "" {
		variant.DataType = dataType
	}
	return newCollection(r, variant, data, req)
}

// MakeEntity wraps data using the default registry.
func MakeEntity(data any, req *Request, dataType string) (*Entity, error) {
	return defaultRegistry.MakeEntity(data, req, dataType)
}

// MakeCollection wraps data using the default registry.
func MakeCollection(data any, req *Request, dataType string) (*Collection, error) {
	return defaultRegistry.MakeCollection(data, req, dataType)
}

func collectionName(dataType string) string {
	return dataType + "Collection"
}
