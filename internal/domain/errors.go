package domain

import "errors"

var (
	// ErrQueryTooShort is returned when a search pattern is under the minimum length
	ErrQueryTooShort = errors.New("search pattern must be at least 3 characters")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a referenced product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrStorageUnavailable is returned when the document store is unreachable or timed out
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrSearchUnavailable is returned when the search index cannot be reached
	ErrSearchUnavailable = errors.New("search index unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
