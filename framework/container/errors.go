package container

import "errors"

// ErrNotRegistered matches every *NotRegisteredError through errors.Is.
var ErrNotRegistered = errors.New("container: no concrete implementation registered")

// ErrNilInstance is returned by Get when a constructor returns nil.
var ErrNilInstance = errors.New("container: constructor returned nil")

// NotRegisteredError is returned by Get when no binding exists for the
// requested abstraction.
type NotRegisteredError struct {
	Key Key
}

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	// Example: container: no concrete implementation registered for [github.com/acme/metrics.Metrics]
	return "container: no concrete implementation registered for [" + e.Key.String() + "]"
}

// Is lets errors.Is(err, ErrNotRegistered) succeed.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}
