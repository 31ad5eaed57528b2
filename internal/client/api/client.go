package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/shopclient/internal/client/events"
	"github.com/iudanet/shopclient/internal/client/storage"
	"github.com/iudanet/shopclient/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с backend магазина.
// Перед каждым авторизованным запросом подставляет bearer token из
// credential хранилища и прозрачно восстанавливается после истечения
// access token через single-flight refresh.
type Client struct {
	httpClient *http.Client
	creds      storage.CredentialStorage
	logoutHub  *events.Hub
	logger     *slog.Logger
	baseURL    string
	clientID   string
	refresh    singleflight.Group
}

// NewClient создает новый API клиент
func NewClient(baseURL string, creds storage.CredentialStorage, logoutHub *events.Hub, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		creds:     creds,
		logoutHub: logoutHub,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetClientID устанавливает устойчивый ID устройства,
// передаваемый в заголовке X-Client-ID каждого запроса
func (c *Client) SetClientID(id string) {
	c.clientID = id
}

// doRequest выполняет HTTP запрос.
// Если authenticated и сервер ответил 401, запрос повторяется ровно один
// раз с новым access token, полученным через refresh. Повторный 401
// возвращается вызывающему как есть — второго цикла refresh не бывает.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, authenticated bool) error {
	status, respBody, err := c.send(ctx, method, path, body, authenticated, "")
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authenticated {
		// Access token истек или отозван — пробуем single-flight refresh
		token, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}

		// Повторяем исходный запрос с новым токеном
		status, respBody, err = c.send(ctx, method, path, body, authenticated, token)
		if err != nil {
			return err
		}
	}

	// Проверяем статус код
	if status < 200 || status >= 300 {
		return statusError(status, respBody)
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// send выполняет один HTTP запрос без повторов.
// overrideToken подставляется вместо токена из хранилища — используется
// при повторе запроса после refresh, чтобы устаревший токен не утек
// в повторную попытку.
func (c *Client) send(
	ctx context.Context,
	method, path string,
	body any,
	authenticated bool,
	overrideToken string,
) (int, []byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	// Подставляем bearer token. Отсутствующий токен не ошибка —
	// запрос уходит неавторизованным.
	if authenticated {
		token := overrideToken
		if token == "" {
			stored, err := c.creds.GetCredential(ctx, storage.KeyAccessToken)
			if err == nil {
				token = stored
			}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// statusError строит типизированную ошибку из не-2xx ответа сервера
func statusError(status int, respBody []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
		return &api.StatusError{StatusCode: status, Message: errResp.Message}
	}
	return &api.StatusError{StatusCode: status, Message: string(respBody)}
}
