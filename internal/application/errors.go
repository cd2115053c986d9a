package application

import "errors"

var (
	// ErrGroupNotFound is returned when the requested group does not exist.
	ErrGroupNotFound = errors.New("application: group not found")
	// ErrUnauthorized is returned when the acting user lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrMailDelivery is returned when an outbound message could not be handed
	// to the mail transport. The local state change it accompanied has already
	// been applied.
	ErrMailDelivery = errors.New("application: mail delivery failed")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
