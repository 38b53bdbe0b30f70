package store

import "errors"

// ErrNotFound reports that a requested row does not exist. Progress reads
// absorb it into a default document; write paths surface it to the caller.
var ErrNotFound = errors.New("record not found")

// ErrConflict reports a unique-constraint violation, e.g. a duplicate
// bookmark for the same (user, question) pair.
var ErrConflict = errors.New("record already exists")
