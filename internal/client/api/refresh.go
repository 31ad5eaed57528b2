package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iudanet/shopclient/internal/client/storage"
	"github.com/iudanet/shopclient/pkg/api"
)

const refreshPath = "/auth/token/refresh/"

// refreshAccessToken обновляет access token через refresh token.
// Сколько бы запросов ни получили 401 одновременно, singleflight
// гарантирует ровно один вызов refresh endpoint — все ожидающие
// получают его результат.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do("token-refresh", func() (any, error) {
		token, refreshErr := c.doRefresh(ctx)
		if refreshErr != nil {
			// Невосстановимо: чистим оба токена и рассылаем
			// принудительный logout. Выполняется один раз за цикл
			// refresh, а не по разу на каждого ожидающего.
			c.logger.Warn("token refresh failed, forcing logout", "error", refreshErr)
			c.clearCredentials(ctx)
			if c.logoutHub != nil {
				c.logoutHub.Publish()
			}
			return nil, refreshErr
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}

	token, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected refresh result type %T", v)
	}
	return token, nil
}

// doRefresh выполняет сам refresh запрос и сохраняет новый access token
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	// Без refresh token восстановление невозможно — сетевой вызов не делаем
	refreshToken, err := c.creds.GetCredential(ctx, storage.KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token unavailable: %w", err)
	}

	req := api.RefreshRequest{RefreshToken: refreshToken}

	status, respBody, err := c.send(ctx, http.MethodPost, refreshPath, req, false, "")
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("refresh rejected: %w", statusError(status, respBody))
	}

	var resp api.RefreshResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("refresh response has no access token")
	}

	// Сохраняем новый access token до того, как ожидающие запросы
	// будут повторены
	ttl := AccessTokenLifetime(resp.AccessToken)
	if err := c.creds.SaveCredential(ctx, storage.KeyAccessToken, resp.AccessToken, ttl); err != nil {
		return "", fmt.Errorf("failed to save access token: %w", err)
	}

	return resp.AccessToken, nil
}

// clearCredentials удаляет оба токена из хранилища
func (c *Client) clearCredentials(ctx context.Context) {
	if err := c.creds.DeleteCredential(ctx, storage.KeyAccessToken); err != nil {
		c.logger.Warn("failed to delete access token", "error", err)
	}
	if err := c.creds.DeleteCredential(ctx, storage.KeyRefreshToken); err != nil {
		c.logger.Warn("failed to delete refresh token", "error", err)
	}
}
