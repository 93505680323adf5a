package backend

import (
	"errors"
	"fmt"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 2048

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chat API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat API returned status %d: %s", e.StatusCode, e.Body)
}

// AsStatusError extracts the HTTP status failure wrapped in err, if any
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
