package listonce

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a decoded JSON object. Keys keep the order in which they appeared
// on the wire. An Object is never modified once decoding has finished.
type Object struct {
	fields *orderedmap.OrderedMap[string, any]
}

func newObject() *Object {
	return &Object{fields: orderedmap.New[string, any]()}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

// Has reports whether key is present with a non-null value.
func (o *Object) Has(key string) bool {
	v, ok := o.Get(key)
	return ok && v != nil
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns the field names in wire order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	if o == nil {
		return keys
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the field values in wire order.
func (o *Object) Values() []any {
	values := make([]any, 0, o.Len())
	if o == nil {
		return values
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// MarshalJSON encodes the object with its original key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToMap returns a deep copy of the object built from plain Go values:
// nested objects become map[string]any and numbers become int64 or float64.
func (o *Object) ToMap() map[string]any {
	m := make(map[string]any, o.Len())
	if o == nil {
		return m
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = PlainValue(pair.Value)
	}
	return m
}

// PlainValue converts a decoded value into plain Go values.
func PlainValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = PlainValue(item)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// Decode decodes a JSON document. Objects are returned as *Object, arrays as
// []any and numbers as json.Number.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("invalid data after top-level value: %v", tok)
		}
		return nil, err
	}
	return v, nil
}

// maxNestingDepth matches the limit enforced by encoding/json.
const maxNestingDepth = 10000

func decodeValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if depth >= maxNestingDepth {
		return nil, fmt.Errorf("exceeded max nesting depth of %d", maxNestingDepth)
	}

	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			obj.fields.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		items := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// shallowCopy copies a []any so callers cannot modify shared backing arrays.
// Objects are read-only and returned as is.
func shallowCopy(v any) any {
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		copy(out, items)
		return out
	}
	return v
}

// isEmpty follows the API's loose notion of an unset value.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0"
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case []any:
		return len(t) == 0
	case *Object:
		return t.Len() == 0
	default:
		return false
	}
}

// intValue reads an optional non-negative integer, falling back to def.
func intValue(v any, def int) int {
	var n int64
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return def
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return def
		}
		n = i
	case int:
		n = int64(t)
	case int64:
		n = t
	case float64:
		n = int64(t)
	default:
		return def
	}
	if n < 0 {
		return def
	}
	return int(n)
}

// intField reads key from payload with intValue semantics.
func intField(obj *Object, key string, def int) int {
	if key == "" || !obj.Has(key) {
		return def
	}
	v, _ := obj.Get(key)
	return intValue(v, def)
}
