package listonce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var emptyObject = newObject()

// Entity wraps one decoded API object. Fields are read through explicit
// accessors; an Entity cannot be modified after construction.
type Entity struct {
	value    any
	data     *Object
	dataType string
	request  *Request
}

func newEntity(value any, req *Request, dataType string) (*Entity, error) {
	if err := checkErrorMarkers(value); err != nil {
		return nil, err
	}

	data, ok := value.(*Object)
	if !ok {
		data = emptyObject
	}

	return &Entity{
		value:    value,
		data:     data,
		dataType: dataType,
		request:  req,
	}, nil
}

// DataType returns the logical kind of the entity, e.g. "Listing".
func (e *Entity) DataType() string {
	return e.dataType
}

// Request returns the request that produced the entity.
func (e *Entity) Request() *Request {
	return e.request
}

// Value returns the decoded value the entity wraps. It is an *Object for
// every well-formed API record; an array value is returned as a copy.
func (e *Entity) Value() any {
	return shallowCopy(e.value)
}

// Fields returns the field names in wire order.
func (e *Entity) Fields() []string {
	return e.data.Keys()
}

// Has reports whether name is present with a non-null value.
func (e *Entity) Has(name string) bool {
	return e.data.Has(name)
}

// Get returns the raw value of a field. A field that is present but null
// yields (nil, nil); an absent field yields a *FieldNotFoundError.
func (e *Entity) Get(name string) (any, error) {
	v, ok := e.data.Get(name)
	if !ok {
		return nil, &FieldNotFoundError{Field: name, DataType: e.dataType}
	}
	return v, nil
}

// String reads a scalar field as text.
func (e *Entity) String(name string) (string, error) {
	v, err := e.Get(name)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", &FieldTypeError{Field: name, Want: "string", Value: v}
	}
}

// Int reads a field as an integer. Numeric strings are accepted.
func (e *Entity) Int(name string) (int64, error) {
	v, err := e.Get(name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, &FieldTypeError{Field: name, Want: "int", Value: v}
}

// Float reads a field as a floating point number. Numeric strings are accepted.
func (e *Entity) Float(name string) (float64, error) {
	v, err := e.Get(name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, nil
		}
	}
	return 0, &FieldTypeError{Field: name, Want: "float", Value: v}
}

// Bool reads a field as a boolean. Numbers are true when non-zero and
// strings are parsed with strconv.ParseBool.
func (e *Entity) Bool(name string) (bool, error) {
	v, err := e.Get(name)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f != 0, nil
		}
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b, nil
		}
	}
	return false, &FieldTypeError{Field: name, Want: "bool", Value: v}
}

// Object reads a nested object field.
func (e *Entity) Object(name string) (*Object, error) {
	v, err := e.Get(name)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, &FieldTypeError{Field: name, Want: "object", Value: v}
	}
	return obj, nil
}

// List reads an array field. The returned slice is a copy.
func (e *Entity) List(name string) ([]any, error) {
	v, err := e.Get(name)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &FieldTypeError{Field: name, Want: "array", Value: v}
	}
	return append([]any(nil), items...), nil
}

// Decode stores the entity's data in the value pointed to by v using the
// encoding/json rules.
func (e *Entity) Decode(v any) error {
	b, err := json.Marshal(e.value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.dataType, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.dataType, err)
	}
	return nil
}

// Set always fails with ErrImmutableEntity.
func (e *Entity) Set(name string, value any) error {
	return fmt.Errorf("set %q: %w", name, ErrImmutableEntity)
}

// Unset always fails with ErrImmutableEntity.
func (e *Entity) Unset(name string) error {
	return fmt.Errorf("unset %q: %w", name, ErrImmutableEntity)
}

// MarshalJSON encodes the wrapped value.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}
