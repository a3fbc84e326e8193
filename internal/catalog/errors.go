package catalog

import "errors"

// ErrMalformedRecord is returned when a backend record lacks its identity fields.
var ErrMalformedRecord = errors.New("malformed course record")
