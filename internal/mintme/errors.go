package mintme

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("mintme: public and private API keys are required")
	ErrInvalidPagination  = errors.New("mintme: offset must be >= 0 and limit > 0")
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mintme %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-success HTTP status that carried no usable payload.
type RemoteError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("mintme %s: API error: %d %s", e.Op, e.StatusCode, e.Status)
}
