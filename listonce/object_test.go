package listonce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	v, err := Decode([]byte(body))
	require.NoError(t, err)
	return v
}

func TestDecodePreservesKeyOrder(t *testing.T) {
	body := `{"zeta":1,"alpha":{"nested":[1,"two",null,true]},"mid":"x"}`

	v := decode(t, body)
	obj, ok := v.(*Object)
	require.True(t, ok)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
	assert.Equal(t, 3, obj.Len())

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, body, string(out))
}

func TestDecodeValues(t *testing.T) {
	v := decode(t, `{"n":12,"f":1.5,"s":"hi","b":false,"nil":null,"list":[{"a":1}]}`)
	obj := v.(*Object)

	n, _ := obj.Get("n")
	assert.Equal(t, json.Number("12"), n)

	f, _ := obj.Get("f")
	assert.Equal(t, json.Number("1.5"), f)

	list, _ := obj.Get("list")
	items, ok := list.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.IsType(t, &Object{}, items[0])

	assert.True(t, obj.Has("b"))
	assert.False(t, obj.Has("nil"))
	_, present := obj.Get("nil")
	assert.True(t, present)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "truncated object", body: `{"a":`},
		{name: "unterminated array", body: `[1,2`},
		{name: "trailing data", body: `{"a":1} {"b":2}`},
		{name: "garbage", body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestObjectNilSafe(t *testing.T) {
	var obj *Object
	_, ok := obj.Get("x")
	assert.False(t, ok)
	assert.False(t, obj.Has("x"))
	assert.Equal(t, 0, obj.Len())
	assert.Empty(t, obj.Keys())
	assert.Empty(t, obj.Values())
	assert.Empty(t, obj.ToMap())
}

func TestObjectToMap(t *testing.T) {
	obj := decode(t, `{"id":7,"price":1.25,"tags":["a",{"k":2}]}`).(*Object)

	assert.Equal(t, map[string]any{
		"id":    int64(7),
		"price": 1.25,
		"tags":  []any{"a", map[string]any{"k": int64(2)}},
	}, obj.ToMap())
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "empty string", value: "", want: true},
		{name: "zero string", value: "0", want: true},
		{name: "false", value: false, want: true},
		{name: "zero number", value: json.Number("0"), want: true},
		{name: "zero float", value: json.Number("0.0"), want: true},
		{name: "empty array", value: []any{}, want: true},
		{name: "empty object", value: newObject(), want: true},
		{name: "text", value: "bad key", want: false},
		{name: "true", value: true, want: false},
		{name: "number", value: json.Number("3"), want: false},
		{name: "array", value: []any{"x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEmpty(tt.value))
		})
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{name: "number", value: json.Number("5"), want: 5},
		{name: "float number", value: json.Number("2.0"), want: 2},
		{name: "numeric string", value: " 7 ", want: 7},
		{name: "negative", value: json.Number("-1"), want: 9},
		{name: "garbage string", value: "many", want: 9},
		{name: "nil", value: nil, want: 9},
		{name: "bool", value: true, want: 9},
		{name: "int", value: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intValue(tt.value, 9))
		})
	}
}

func TestIntField(t *testing.T) {
	obj := decode(t, `{"page":"3","total_pages":null}`).(*Object)

	assert.Equal(t, 3, intField(obj, "page", 1))
	assert.Equal(t, 1, intField(obj, "total_pages", 1))
	assert.Equal(t, 0, intField(obj, "missing", 0))
	assert.Equal(t, 1, intField(nil, "page", 1))
	assert.Equal(t, 1, intField(obj, "", 1))
}
