package storage

import (
	"context"
	"time"
)

// Имена credential записей и их время жизни.
// Access token короткоживущий, refresh token живет неделю.
const (
	KeyAccessToken  = "access"
	KeyRefreshToken = "refresh"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CredentialStorage defines interface for durable token storage on client.
// Токены хранятся отдельно от снапшота сессии: они должны переживать
// перезапуск и быть доступными до гидрации состояния.
type CredentialStorage interface {
	// SaveCredential stores value under name with expiry after ttl
	SaveCredential(ctx context.Context, name, value string, ttl time.Duration) error

	// GetCredential returns stored value.
	// Returns ErrCredentialNotFound if entry is absent or expired.
	GetCredential(ctx context.Context, name string) (string, error)

	// DeleteCredential removes entry immediately. Deleting a missing
	// entry is not an error.
	DeleteCredential(ctx context.Context, name string) error
}
