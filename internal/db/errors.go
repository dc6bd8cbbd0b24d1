package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound       = errors.New("db: key not found")
	ErrInvalidIdentifier = errors.New("db: invalid identifier")
	ErrUnsupportedColumn = errors.New("db: unsupported facet column")
)

// Op constants name the failed statement for error context.
const (
	OpSelect        = "SELECT"
	OpCountDistinct = "COUNT DISTINCT"
	OpInsert        = "INSERT"
	OpPing          = "PING"
	OpMigrate       = "MIGRATE"
	OpGet           = "GET"
	OpSet           = "SET"
	OpDel           = "DEL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
