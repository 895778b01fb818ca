package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/erazemk/freshrack/internal/expiry"
)

var (
	// ErrInvalidInput matches rejected requests and malformed dates. It is the
	// same sentinel the expiry package returns, so callers check one value.
	ErrInvalidInput = expiry.ErrInvalidInput

	// ErrUnauthorized matches missing credentials and ownership violations.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches requests for items that do not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
