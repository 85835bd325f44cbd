package models

import "errors"

// ErrNotFound is the shared sentinel for logical not-found reads. Storage
// providers wrap it; callers test with errors.Is.
var ErrNotFound = errors.New("record not found")
