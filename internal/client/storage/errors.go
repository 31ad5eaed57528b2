package storage

import "errors"

// Common client storage errors
var (
	// ErrCredentialNotFound indicates that credential is absent or expired
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrSessionNotFound indicates that no persisted session snapshot exists
	ErrSessionNotFound = errors.New("session snapshot not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
