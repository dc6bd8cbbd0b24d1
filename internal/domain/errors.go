package domain

import "errors"

var (
	// ErrInvalidRequest signals a search request that cannot be served as given.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrQueryTooShort signals a suggestion query below the minimum length.
	ErrQueryTooShort = errors.New("query too short")
	// ErrStoreUnavailable signals a record store failure (connectivity, timeout).
	ErrStoreUnavailable = errors.New("listing store unavailable")
)
