package omdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when OMDb answers with Response "False".
var ErrNotFound = errors.New("omdb: not found")

// APIError is a non-2xx HTTP reply.
type APIError struct {
	StatusCode int
	Kind       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("omdb %s request returned status %d", e.Kind, e.StatusCode)
}

// IsAuthError reports a rejected API key.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
