package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// StatusError is a non-2xx response from the gateway.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Code)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Code, e.Message)
}

// Is maps 401 responses onto domain.ErrUnauthenticated so callers can use
// errors.Is without caring about HTTP.
func (e *StatusError) Is(target error) bool {
	return target == domain.ErrUnauthenticated && e.Code == http.StatusUnauthorized
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
