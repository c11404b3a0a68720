package inventory

import "errors"

// ErrNotFound is returned when no phone carries the requested id.
var ErrNotFound = errors.New("phone not found")
