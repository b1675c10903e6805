package largemap

import "errors"

// ErrInvalidConfiguration is returned by New when an option carries a value
// the map cannot work with, such as a non-positive shard limit.
var ErrInvalidConfiguration = errors.New("largemap: invalid configuration")
