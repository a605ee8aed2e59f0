package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound means the request reached the catalog but no volume matched.
var ErrNotFound = errors.New("volume not found")

// ErrEmptyQuery is returned before any network call when the query is blank.
var ErrEmptyQuery = errors.New("query is required")

// TransportError covers everything between us and a usable catalog response:
// network failures, timeouts, non-2xx statuses and undecodable payloads.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
