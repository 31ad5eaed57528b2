package api

import (
	"context"

	"github.com/iudanet/shopclient/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI определяет интерфейс API клиента для session store и тестов
type ClientAPI interface {
	// Login выполняет аутентификацию по email и паролю
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)

	// Verify2FA обменивает временный токен и код второго фактора на пару токенов
	Verify2FA(ctx context.Context, req api.TwoFactorVerifyRequest) (*api.TokenResponse, error)

	// Send2FAEmail запрашивает отправку кода второго фактора на email
	Send2FAEmail(ctx context.Context, req api.TwoFactorEmailRequest) error

	// SocialLogin обменивает authorization code провайдера на пару токенов
	SocialLogin(ctx context.Context, provider string, req api.SocialLoginRequest) (*api.TokenResponse, error)

	// Register регистрирует нового пользователя
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)

	// GetProfile запрашивает профиль текущего пользователя
	GetProfile(ctx context.Context) (*api.UserProfile, error)

	// UpdateProfile отправляет частичное обновление профиля
	UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) error

	// Logout уведомляет сервер об инвалидации refresh token
	Logout(ctx context.Context, req api.LogoutRequest) error

	// GetSocialAccounts запрашивает список привязанных аккаунтов
	GetSocialAccounts(ctx context.Context) (*api.SocialAccountsResponse, error)

	// DisconnectSocialAccount отвязывает внешнего провайдера
	DisconnectSocialAccount(ctx context.Context, req api.SocialDisconnectRequest) error
}

// Compile-time check that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)
