package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/shopclient/internal/client/storage"
)

// AccessTokenLifetime извлекает срок жизни access token из exp claim.
// Токен не верифицируется — подпись проверяет сервер, клиенту нужен
// только срок для политики хранения. Если exp отсутствует или токен
// не парсится, возвращается стандартный часовой TTL.
func AccessTokenLifetime(raw string) time.Duration {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return storage.AccessTokenTTL
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return storage.AccessTokenTTL
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return storage.AccessTokenTTL
	}

	return ttl
}
