package errors

import "errors"

// ErrOptimisticLock signals a version-column mismatch: the row was
// modified by another operation between read and write.
var ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")
