package swraster

import (
	"errors"
	"fmt"
)

// ErrTargetLost is returned by operations on a render target that has been
// marked lost after a resource allocation failure.
var ErrTargetLost = errors.New("swraster: render target lost")

// ErrInvalidTarget is returned when a render target cannot be created.
var ErrInvalidTarget = errors.New("swraster: invalid render target")

// ErrFilterFailed is returned when a filter chain stage fails.
var ErrFilterFailed = errors.New("swraster: filter failed")

// contractf panics with a swraster-prefixed message. It is used for caller
// contract violations, which are programming errors rather than runtime
// conditions.
func contractf(format string, args ...any) {
	panic(fmt.Sprintf("swraster: "+format, args...))
}
