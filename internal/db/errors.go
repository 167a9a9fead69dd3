package db

import "errors"

// Sentinel errors for store operations.
var (
	ErrCollectionNotFound = errors.New("db: collection not found")
	ErrCollectionExists   = errors.New("db: collection already exists")
	ErrNotPromoted        = errors.New("db: no collection promoted")
)

// Op constants name the failing store operation for error context.
const (
	OpCreateCollection = "create collection"
	OpDropCollection   = "drop collection"
	OpCollectionInfo   = "collection info"
	OpCount            = "count"
	OpInsert           = "insert"
	OpSearch           = "search"
	OpPromote          = "promote"
	OpCurrent          = "current"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
