package trac

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any RemoteFault the server raised for a missing resource.
var ErrNotFound = errors.New("trac: not found")

// Trac's RPC plugin reports ResourceNotFound with this fault code.
const notFoundFaultCode = 404

// ConnectionError means the endpoint is unreachable or misconfigured.  The profile stays usable; the
// caller may simply try again.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("trac: couldn't reach %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RemoteFault is a rejection reported by the server for one call.
type RemoteFault struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteFault) Error() string {
	return fmt.Sprintf("trac: %s failed with fault %d: %s", e.Method, e.Code, e.Message)
}

func (e *RemoteFault) Is(target error) bool {
	return target == ErrNotFound && e.Code == notFoundFaultCode
}

// ValidationError is raised before anything goes over the wire.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "trac: " + e.Msg
}

func invalid(format string, a ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// IsValidation reports whether err was a local rejection.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
