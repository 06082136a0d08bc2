package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrUpstream is returned when the model call fails, times out, or returns
	// no usable content.
	ErrUpstream = errors.New("language model request failed")

	// ErrContentBlocked is returned when the model blocks the content due to
	// safety filters. It also matches ErrUpstream.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by safety filters", ErrUpstream)

	// ErrMalformedResponse is returned when the model output cannot be parsed
	// into a lesson plan.
	ErrMalformedResponse = errors.New("malformed lesson plan response")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
