// Package listonce is a client for the ListOnce real estate listing API.
//
// Responses are decoded into an ordered tree of *Object values and wrapped by
// a Registry as an *Entity (single object) or a *Collection (zero or more
// objects with optional pagination). Both are read-only. Collections wrap
// their elements lazily, producing a fresh Entity on every access.
//
// The legacy envelope form is available through QueryResponse, which returns
// a *Response that can be merged with other pages of the same data type.
package listonce
