package customers

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyID is returned when a customer id is blank.
var ErrEmptyID = errors.New("customer id is empty")

// ErrNilCallback is returned by ListAll when no callback is given.
var ErrNilCallback = errors.New("nil callback")

// APIError is a non-2xx API response escalated by a workflow.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("customers %s: code %d message %s", e.Op, e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
