package costing

import "errors"

// ErrCeilingExceeded is returned by CheckCeiling when the projected cost of
// a call would meet or exceed the configured ceiling. The Pipeline Driver
// treats this as a soft termination.
var ErrCeilingExceeded = errors.New("cost ceiling exceeded")

// IsCeilingExceeded reports whether err is, or wraps, ErrCeilingExceeded.
func IsCeilingExceeded(err error) bool {
	return errors.Is(err, ErrCeilingExceeded)
}
