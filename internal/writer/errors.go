package writer

import "errors"

// ErrPersistenceFailure wraps every failed write. The local state that
// produced the write is left untouched and the write can be retried.
var ErrPersistenceFailure = errors.New("persistence failure")
