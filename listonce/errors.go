package listonce

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid listonce configuration")
	// ErrEmptyResponse indicates the API returned no body
	ErrEmptyResponse = errors.New("empty response from REST API")
	// ErrMalformedJSON indicates the body could not be decoded
	ErrMalformedJSON = errors.New("unable to parse response JSON")
	// ErrPayloadTooLarge indicates the body exceeded the transport size guard
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrFieldNotFound indicates a read of a field the payload does not carry
	ErrFieldNotFound = errors.New("field not found")
	// ErrFieldType indicates a field could not be converted to the requested type
	ErrFieldType = errors.New("field has unexpected type")
	// ErrImmutableEntity is returned by every attempt to modify an Entity
	ErrImmutableEntity = errors.New("entity is immutable")
	// ErrImmutableCollection is returned by every attempt to modify a Collection
	ErrImmutableCollection = errors.New("entity collection is immutable")
	// ErrIndexOutOfRange indicates positional access beyond the collection bounds
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTypeMismatch indicates a merge across differing data types
	ErrTypeMismatch = errors.New("data type mismatch")
	// ErrUnsupportedPagination indicates pagination was requested on a non-paginated collection
	ErrUnsupportedPagination = errors.New("this collection does not contain pagination data")
	// ErrInvalidPaginationKey indicates an unknown pagination variable
	ErrInvalidPaginationKey = errors.New("invalid pagination variable")
	// ErrMissingDataType indicates a collection was requested without a data type
	ErrMissingDataType = errors.New("collection data type is required")
)

// APIError is raised when a decoded payload carries one of the API's error
// markers (error_message or ERROR).
type APIError struct {
	// Field is the marker that was set.
	Field   string
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return "listonce API error: " + e.Message
}

// MalformedJSONError wraps the decoder diagnostic for an undecodable body.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedJSON, e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

func (e *MalformedJSONError) Is(target error) bool {
	return target == ErrMalformedJSON
}

// FieldNotFoundError names the field that was missing.
type FieldNotFoundError struct {
	Field    string
	DataType string
}

func (e *FieldNotFoundError) Error() string {
	if e.DataType != "" {
		return fmt.Sprintf("field %q not found in %s", e.Field, e.DataType)
	}
	return fmt.Sprintf("field %q not found", e.Field)
}

func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// FieldTypeError reports a typed read of a field holding an incompatible value.
type FieldTypeError struct {
	Field string
	Want  string
	Value any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: cannot read %T as %s", e.Field, e.Value, e.Want)
}

func (e *FieldTypeError) Is(target error) bool {
	return target == ErrFieldType
}

// IndexOutOfRangeError reports the offending index and the collection length.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0:%d]", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// TypeMismatchError reports the data types of a rejected merge.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("data type mismatch: cannot merge %q into %q", e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// StatusError is returned by the HTTP transport for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
