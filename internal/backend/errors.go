package backend

import (
	"errors"
	"fmt"
)

// ErrTransport marks a request that never produced a usable response:
// connection failures, timeouts, non-JSON bodies and unexpected statuses.
var ErrTransport = errors.New("backend transport failure")

// BusinessError is a rejection the backend reported with success=false.
type BusinessError struct {
	Op      string
	Status  int
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected", e.Op)
	}
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// AsBusiness unwraps a business rejection.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
}
