package storage

import (
	"context"

	"github.com/iudanet/shopclient/internal/models"
)

// SessionSnapshot представляет персистируемую часть состояния сессии.
// Персистятся только user и isAuthenticated; hasHydrated и список
// привязанных аккаунтов всегда вычисляются заново.
type SessionSnapshot struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// SessionStorage defines interface for persisting the session snapshot
type SessionStorage interface {
	// SaveSession stores the snapshot under a fixed key
	SaveSession(ctx context.Context, snap *SessionSnapshot) error

	// GetSession retrieves the stored snapshot.
	// Returns ErrSessionNotFound if nothing was persisted yet.
	GetSession(ctx context.Context) (*SessionSnapshot, error)

	// DeleteSession removes the stored snapshot
	DeleteSession(ctx context.Context) error
}

// MetadataStorage defines interface for per-device client metadata
type MetadataStorage interface {
	// GetClientID returns the durable device ID, generating it on first use
	GetClientID(ctx context.Context) (string, error)
}
