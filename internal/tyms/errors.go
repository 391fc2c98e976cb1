package tyms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse indicates a 2xx provider response whose body could
// not be parsed as the expected JSON shape
var ErrMalformedResponse = errors.New("malformed response from Tyms API")

// UpstreamError carries a non-2xx provider response. The body is preserved
// verbatim so handlers can surface it as error details.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tyms: upstream returned %d: %s", e.StatusCode, e.Body)
}

// Details returns the response body decoded as JSON when possible, or the
// raw text otherwise
func (e *UpstreamError) Details() any {
	var v any
	if err := json.Unmarshal(e.Body, &v); err == nil {
		return v
	}
	return string(e.Body)
}

// IsUnauthorized reports whether err is a 401 from the provider
func IsUnauthorized(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized
}
