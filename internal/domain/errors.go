package domain

import "errors"

// Sentinel errors for account and sync operations
var (
	// ErrNotSignedIn indicates the operation requires a signed-in account
	ErrNotSignedIn = errors.New("no account is signed in")

	// ErrAuthFailed indicates the account credentials were rejected
	ErrAuthFailed = errors.New("account authentication is invalid")

	// ErrBackendOffline indicates the account backend is unreachable
	ErrBackendOffline = errors.New("account backend is unreachable")

	// ErrInvalidEmail indicates a sign-in was attempted with a malformed address
	ErrInvalidEmail = errors.New("invalid email address")
)
