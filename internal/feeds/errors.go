package feeds

import (
	"errors"
	"fmt"
)

// StatusError reports a non-success HTTP status from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.Endpoint)
}

// AppError reports an application-level {"error": "..."} payload.
type AppError struct {
	Endpoint string
	Message  string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: backend error: %s", e.Endpoint, e.Message)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
