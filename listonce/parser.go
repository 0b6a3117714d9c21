package listonce

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Error marker fields recognised on response payloads.
const (
	errorMessageField = "error_message"
	errorField        = "ERROR"
)

// Parse decodes a response body. It fails with ErrEmptyResponse for blank
// bodies and with a *MalformedJSONError when decoding fails. API error
// markers are left for the entity layer to detect.
func Parse(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyResponse
	}

	payload, err := Decode(raw)
	if err != nil {
		return nil, &MalformedJSONError{Err: err}
	}
	return payload, nil
}

// ParseStrict is Parse followed by an error_message check on the root object.
func ParseStrict(raw []byte) (any, error) {
	payload, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	if obj, ok := payload.(*Object); ok {
		if v, _ := obj.Get(errorMessageField); !isEmpty(v) {
			return nil, &APIError{Field: errorMessageField, Message: markerText(v)}
		}
	}
	return payload, nil
}

// checkErrorMarkers fails when payload is an object carrying a non-empty
// error_message or ERROR field.
func checkErrorMarkers(payload any) error {
	obj, ok := payload.(*Object)
	if !ok {
		return nil
	}
	for _, field := range []string{errorMessageField, errorField} {
		if v, _ := obj.Get(field); !isEmpty(v) {
			return &APIError{Field: field, Message: markerText(v)}
		}
	}
	return nil
}

func markerText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
