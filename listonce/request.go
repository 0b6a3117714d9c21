package listonce

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public ListOnce endpoint.
const DefaultBaseURL = "http://www.listonce.com.au"

// Request describes one API call. Entities and collections keep a reference
// to the Request that produced them for diagnostics.
type Request struct {
	Method   string
	Function string
	// URL is the full request URL. For GET requests it carries the encoded
	// parameters; for other methods they travel in Body.
	URL    string
	Body   string
	Params url.Values
}

// Header returns the headers the request should be sent with.
func (r *Request) Header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if r.Method != http.MethodGet {
		h.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return h
}

// CacheKey identifies the request for the cache collaborator.
func (r *Request) CacheKey() string {
	if r.Body == "" {
		return r.URL
	}
	return r.URL + "\n" + r.Body
}

// String implements fmt.Stringer. The API key is masked.
func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, redactURL(r.URL))
}

// buildRequest builds <base>/api/<function>?api_key=<key>[&<query>]. Non-GET
// methods send the encoded parameters as the body instead.
func buildRequest(baseURL, apiKey, function string, params url.Values, method string) *Request {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}

	params = cloneValues(params)
	u := fmt.Sprintf("%s/api/%s?api_key=%s", baseURL, function, url.QueryEscape(apiKey))
	query := params.Encode()

	req := &Request{
		Method:   method,
		Function: function,
		Params:   params,
	}
	if method == http.MethodGet {
		if query != "" {
			u += "&" + query
		}
		req.URL = u
		return req
	}

	req.URL = u
	req.Body = query
	return req
}

// withRequired merges required parameters over the caller's extras. Required
// values always win.
func withRequired(extra url.Values, required url.Values) url.Values {
	out := cloneValues(extra)
	for k, v := range required {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	maps.Copy(out, v)
	for k, vs := range out {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// redactURL masks the api_key parameter for logging.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
