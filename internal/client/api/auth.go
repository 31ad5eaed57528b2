package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/shopclient/pkg/api"
)

// Login выполняет аутентификацию по email и паролю.
// Если у пользователя включен второй фактор, ответ содержит
// requires_2fa и временный токен вместо пары токенов.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/login/", req, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Verify2FA обменивает временный токен и код второго фактора на пару токенов
func (c *Client) Verify2FA(ctx context.Context, req api.TwoFactorVerifyRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/login/2fa/", req, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("2fa verify request failed: %w", err)
	}
	return &resp, nil
}

// Send2FAEmail запрашивает отправку кода второго фактора на email
func (c *Client) Send2FAEmail(ctx context.Context, req api.TwoFactorEmailRequest) error {
	err := c.doRequest(ctx, http.MethodPost, "/auth/login/2fa/email/", req, nil, false)
	if err != nil {
		return fmt.Errorf("2fa email request failed: %w", err)
	}
	return nil
}

// SocialLogin обменивает authorization code внешнего провайдера на пару токенов
func (c *Client) SocialLogin(ctx context.Context, provider string, req api.SocialLoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	path := fmt.Sprintf("/auth/social/%s/callback/", provider)
	err := c.doRequest(ctx, http.MethodPost, path, req, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("social login request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя.
// Сервер сразу возвращает профиль и пару токенов.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	err := c.doRequest(ctx, http.MethodPost, "/auth/register/", req, &resp, false)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// GetProfile запрашивает профиль текущего пользователя
func (c *Client) GetProfile(ctx context.Context) (*api.UserProfile, error) {
	var resp api.UserProfile
	err := c.doRequest(ctx, http.MethodGet, "/auth/profile/", nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdateProfile отправляет частичное обновление профиля.
// Обновленный профиль не возвращается — вызывающий перечитывает его
// отдельным GetProfile.
func (c *Client) UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) error {
	err := c.doRequest(ctx, http.MethodPatch, "/auth/profile/", req, nil, true)
	if err != nil {
		return fmt.Errorf("profile update request failed: %w", err)
	}
	return nil
}

// Logout уведомляет сервер об инвалидации refresh token
func (c *Client) Logout(ctx context.Context, req api.LogoutRequest) error {
	err := c.doRequest(ctx, http.MethodPost, "/auth/logout/", req, nil, true)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// GetSocialAccounts запрашивает список привязанных внешних аккаунтов
func (c *Client) GetSocialAccounts(ctx context.Context) (*api.SocialAccountsResponse, error) {
	var resp api.SocialAccountsResponse
	err := c.doRequest(ctx, http.MethodGet, "/auth/social/accounts/", nil, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("social accounts request failed: %w", err)
	}
	return &resp, nil
}

// DisconnectSocialAccount отвязывает внешнего провайдера
func (c *Client) DisconnectSocialAccount(ctx context.Context, req api.SocialDisconnectRequest) error {
	err := c.doRequest(ctx, http.MethodPost, "/auth/social/disconnect/", req, nil, true)
	if err != nil {
		return fmt.Errorf("social disconnect request failed: %w", err)
	}
	return nil
}
