package internal

import "errors"

var (
	// ErrConfiguration means required configuration is missing or invalid.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuthorization means identity resolution or role assumption failed.
	ErrAuthorization = errors.New("authorization error")
	// ErrFetch means the remote endpoint call failed.
	ErrFetch = errors.New("fetch error")
	// ErrNotAuthenticated means the fetcher was called without a session.
	ErrNotAuthenticated = errors.New("not authenticated: establish a session first")
)
