package relay

import "fmt"

// EnvelopeError reports an inbound envelope that could not be decoded into
// a RawRequest: invalid JSON, missing or mistyped required fields, or an
// unparseable URL. It is not attributable to any route.
type EnvelopeError struct {
	Reason string
	// SalvagedID is the best-effort id recovered from the broken envelope,
	// or empty when nothing was recoverable.
	SalvagedID string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("invalid envelope: %s", e.Reason)
}

// ValidationError reports a request that structurally matched a route but
// failed path-parameter coercion or body decoding. It terminates dispatch
// for that request; later routes are not tried.
type ValidationError struct {
	// Name is the offending parameter or field, "body" for whole-body
	// decode failures.
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ParamError builds the ValidationError for a failed parameter coercion.
func ParamError(name, message string) *ValidationError {
	return &ValidationError{Name: name, Message: message}
}

// BodyError builds the ValidationError for a failed body decode.
func BodyError(err error) *ValidationError {
	return &ValidationError{Name: "body", Message: err.Error()}
}
