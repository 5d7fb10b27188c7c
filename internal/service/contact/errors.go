package contact

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the contact service layer.
var (
	ErrNotFound  = errors.New("submission not found")
	ErrThrottled = errors.New("too many submissions")
)

// ValidationError reports which fields failed server-side validation.
// Field messages are user-correctable and safe to expose.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid fields: %s", strings.Join(keys, ", "))
}

// FirstMessage returns one user-facing message, preferring a stable field
// order so responses are deterministic.
func (e *ValidationError) FirstMessage() string {
	for _, f := range []string{"name", "email", "phone", "message"} {
		if msg, ok := e.Fields[f]; ok {
			return msg
		}
	}
	return "Invalid input."
}

// DeliveryError marks a failed send of the business-notification email, the
// must-deliver leg of the dispatch. The wrapped error never carries
// provider response bodies.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
