package listonce

import (
	"encoding/json"
	"iter"
)

// Response is the lightweight envelope used by the legacy endpoint table: a
// list of raw elements plus scalar pagination fields. Its only mutation is
// Merge.
type Response struct {
	elements     []any
	totalObjects int
	currentPage  int
	totalPages   int
	pageSize     *int
	dataType     string

	// totalReported is set when the payload carried total_listings.
	totalReported bool
}

// NewResponse wraps payload. With a dataField the elements are read from that
// field (absent or empty yields no elements) and the page fields are taken
// from the payload; without one the payload itself is the element list, or
// its single element when it is not an array.
func NewResponse(payload any, dataField, dataType string) *Response {
	r := &Response{
		currentPage: 1,
		totalPages:  1,
		dataType:    dataType,
	}

	data := payload
	obj, _ := payload.(*Object)
	if dataField != "" {
		data = nil
		if v, ok := obj.Get(dataField); ok && !isEmpty(v) {
			data = v
		}
		if data == nil {
			data = []any{}
		}
	}

	if items, ok := data.([]any); ok {
		r.elements = make([]any, len(items))
		copy(r.elements, items)
	} else {
		r.elements = []any{data}
	}

	r.totalObjects = len(r.elements)
	if dataField == "" {
		return r
	}

	r.totalObjects = intField(obj, "total_listings", r.totalObjects)
	r.totalReported = obj.Has("total_listings")
	r.currentPage = intField(obj, "page", r.currentPage)
	r.totalPages = intField(obj, "total_pages", r.totalPages)
	if obj.Has("per_page") {
		v, _ := obj.Get("per_page")
		if n := intValue(v, -1); n >= 0 {
			r.pageSize = &n
		}
	}
	return r
}

// Merge appends other's elements after r's. Both responses must share a data
// type. A merged response no longer describes a single page, so the page
// fields are reset.
func (r *Response) Merge(other *Response) error {
	if other == nil {
		return &TypeMismatchError{Want: r.dataType, Got: "<nil>"}
	}
	if other.dataType != r.dataType {
		return &TypeMismatchError{Want: r.dataType, Got: other.dataType}
	}

	r.elements = append(r.elements, other.elements...)
	r.totalObjects += other.totalObjects
	r.totalReported = r.totalReported && other.totalReported
	r.currentPage = 1
	r.totalPages = 1
	r.pageSize = nil
	return nil
}

// Len returns the number of elements.
func (r *Response) Len() int {
	return len(r.elements)
}

// At returns the raw element at index. Array elements are copied.
func (r *Response) At(index int) (any, error) {
	if index < 0 || index >= len(r.elements) {
		return nil, &IndexOutOfRangeError{Index: index, Len: len(r.elements)}
	}
	return shallowCopy(r.elements[index]), nil
}

// Elements returns a copy of the element list.
func (r *Response) Elements() []any {
	return append([]any(nil), r.elements...)
}

// All iterates over the elements in order.
func (r *Response) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, v := range r.elements {
			if !yield(i, shallowCopy(v)) {
				return
			}
		}
	}
}

// TotalObjects returns the number of objects across all pages.
func (r *Response) TotalObjects() int { return r.totalObjects }

// CurrentPage returns the page this response describes.
func (r *Response) CurrentPage() int { return r.currentPage }

// TotalPages returns the number of pages available.
func (r *Response) TotalPages() int { return r.totalPages }

// PageSize returns the page size when the payload declared one.
func (r *Response) PageSize() (int, bool) {
	if r.pageSize == nil {
		return 0, false
	}
	return *r.pageSize, true
}

// DataType returns the element data type.
func (r *Response) DataType() string { return r.dataType }

// MarshalJSON encodes the envelope.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DataType     string `json:"dataType"`
		TotalObjects int    `json:"totalObjects"`
		CurrentPage  int    `json:"currentPage"`
		TotalPages   int    `json:"totalPages"`
		PageSize     *int   `json:"pageSize"`
		Elements     []any  `json:"elements"`
	}{r.dataType, r.totalObjects, r.currentPage, r.totalPages, r.pageSize, r.elements})
}
