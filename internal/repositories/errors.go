package repositories

import "errors"

// ErrNotFound is wrapped by every repository lookup that misses, so callers
// can distinguish a missing row from an infrastructure failure.
var ErrNotFound = errors.New("not found")
