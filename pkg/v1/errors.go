package v1

import "errors"

// Sentinel errors returned by the pacing operations. Callers match them
// with errors.Is; the wrapped messages carry the offending values.
var (
	// ErrInvalidArgument reports a negative duration or frame count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotOwner reports a call made from a goroutine other than the
	// dispatcher's owning goroutine.
	ErrNotOwner = errors.New("dispatcher accessed from non-owning goroutine")

	// ErrNotHeadless reports a headless-only operation invoked outside
	// headless mode.
	ErrNotHeadless = errors.New("headless-only operation invoked outside headless mode")
)
