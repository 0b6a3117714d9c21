package listonce

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty body", body: "", wantErr: ErrEmptyResponse},
		{name: "whitespace body", body: "  \n\t", wantErr: ErrEmptyResponse},
		{name: "malformed", body: `{"listings":[`, wantErr: ErrMalformedJSON},
		{name: "object", body: `{"listings":[]}`},
		{name: "array", body: `["Bondi","Manly"]`},
		{name: "error marker is not checked", body: `{"error_message":"bad key"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Parse([]byte(tt.body))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payload)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, payload)
		})
	}
}

func TestParseMalformedKeepsDiagnostic(t *testing.T) {
	_, err := Parse([]byte(`{"a" 1}`))
	require.Error(t, err)

	var malformed *MalformedJSONError
	require.True(t, errors.As(err, &malformed))
	require.NotNil(t, malformed.Err)
	assert.Contains(t, err.Error(), malformed.Err.Error())
	assert.Contains(t, err.Error(), "unable to parse response JSON")
}

func TestParseNestingDepth(t *testing.T) {
	nested := func(n int) []byte {
		return []byte(strings.Repeat("[", n) + strings.Repeat("]", n))
	}

	_, err := Parse(nested(maxNestingDepth))
	require.NoError(t, err)

	for _, depth := range []int{maxNestingDepth + 1, 3_000_000} {
		_, err := Parse(nested(depth))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedJSON)
		var malformed *MalformedJSONError
		require.True(t, errors.As(err, &malformed))
		assert.Contains(t, err.Error(), "nesting depth")
	}

	_, err = Decode([]byte(strings.Repeat(`{"a":`, maxNestingDepth+1) + "1" + strings.Repeat("}", maxNestingDepth+1)))
	assert.Error(t, err)
}

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "error message", body: `{"error_message":"bad key"}`, wantMsg: "bad key"},
		{name: "empty error message", body: `{"error_message":"","listings":[]}`},
		{name: "zero error message", body: `{"error_message":"0"}`},
		{name: "ERROR marker is left to the entity layer", body: `{"ERROR":"denied"}`},
		{name: "array payload", body: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParseStrict([]byte(tt.body))
			if tt.wantMsg != "" {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantMsg, apiErr.Message)
				assert.Equal(t, "error_message", apiErr.Field)
				assert.Nil(t, payload)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, payload)
		})
	}
}

func TestParseStrictPropagatesParseErrors(t *testing.T) {
	_, err := ParseStrict(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = ParseStrict([]byte("{"))
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestCheckErrorMarkers(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{name: "error message", body: `{"error_message":"bad key"}`, wantField: "error_message", wantMsg: "bad key"},
		{name: "ERROR string", body: `{"ERROR":"denied"}`, wantField: "ERROR", wantMsg: "denied"},
		{name: "ERROR true", body: `{"ERROR":true}`, wantField: "ERROR", wantMsg: "true"},
		{name: "ERROR object", body: `{"ERROR":{"code":3}}`, wantField: "ERROR", wantMsg: `{"code":3}`},
		{name: "error message wins", body: `{"ERROR":"second","error_message":"first"}`, wantField: "error_message", wantMsg: "first"},
		{name: "ERROR false", body: `{"ERROR":false}`},
		{name: "no markers", body: `{"id":1}`},
		{name: "scalar", body: `"text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkErrorMarkers(decode(t, tt.body))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantField, apiErr.Field)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}
