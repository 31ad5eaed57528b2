package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpClient "github.com/iudanet/shopclient/internal/client/api"
	"github.com/iudanet/shopclient/internal/client/storage"
	"github.com/iudanet/shopclient/internal/models"
	"github.com/iudanet/shopclient/internal/validation"
	"github.com/iudanet/shopclient/pkg/api"
)

//go:generate moq -out service_mock.go . Store

// Store определяет интерфейс session store для UI слоя
type Store interface {
	// Hydrate загружает персистированное состояние и выполняет
	// сверку с наличием refresh token
	Hydrate(ctx context.Context) error

	// Login выполняет вход. Ненулевой TwoFactorChallenge означает,
	// что требуется второй фактор и состояние не изменилось
	Login(ctx context.Context, email, password string) (*TwoFactorChallenge, error)

	// Verify2FA завершает вход вторым фактором
	Verify2FA(ctx context.Context, tempToken, code string, isBackupCode bool) error

	// Send2FAEmail запрашивает отправку кода на email
	Send2FAEmail(ctx context.Context, tempToken string) error

	// SocialLogin выполняет вход через внешнего провайдера
	SocialLogin(ctx context.Context, provider, code string) error

	// Register создает аккаунт и сразу аутентифицирует
	Register(ctx context.Context, req api.RegisterRequest) error

	// Logout завершает сессию; локально срабатывает всегда
	Logout(ctx context.Context) error

	// FetchProfile перечитывает профиль; ошибка трактуется как
	// невалидная сессия и не пробрасывается
	FetchProfile(ctx context.Context)

	// UpdateProfile отправляет частичное обновление и перечитывает профиль
	UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) error

	// FetchSocialAccounts перечитывает список привязок; ошибки только логируются
	FetchSocialAccounts(ctx context.Context)

	// DisconnectSocialAccount отвязывает провайдера
	DisconnectSocialAccount(ctx context.Context, provider string) error

	// Наблюдаемое состояние
	User() *models.User
	IsAuthenticated() bool
	HasHydrated() bool
	SocialAccounts() []models.SocialAccount
}

// TwoFactorChallenge представляет промежуточный результат входа,
// когда сервер требует второй фактор
type TwoFactorChallenge struct {
	TempToken string
}

// Service реализует session store поверх API клиента и хранилищ.
// Держит наблюдаемое состояние сессии и персистирует снапшот
// {user, isAuthenticated} при каждом изменении.
type Service struct {
	apiClient httpClient.ClientAPI
	creds     storage.CredentialStorage
	snapshots storage.SessionStorage
	logger    *slog.Logger

	mu             sync.Mutex
	user           *models.User
	socialAccounts []models.SocialAccount
	authenticated  bool
	hydrated       bool
}

// Compile-time check that Service implements Store
var _ Store = (*Service)(nil)

// NewService создает новый session store
func NewService(
	apiClient httpClient.ClientAPI,
	creds storage.CredentialStorage,
	snapshots storage.SessionStorage,
	logger *slog.Logger,
) *Service {
	return &Service{
		apiClient: apiClient,
		creds:     creds,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Hydrate загружает персистированный снапшот и сверяет его с наличием
// refresh token. Персистированное "authenticated" без refresh token —
// призрачная сессия: состояние принудительно сбрасывается.
// hasHydrated выставляется ровно один раз, после сверки.
func (s *Service) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	snap, err := s.snapshots.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("failed to load session snapshot: %w", err)
		}
		// Первый запуск — персистированного состояния еще нет
		snap = &storage.SessionSnapshot{}
	}

	s.user = snap.User
	s.authenticated = snap.IsAuthenticated

	// Сверка: без refresh token сессия не считается аутентифицированной,
	// что бы ни говорил сохраненный флаг
	if s.authenticated {
		if _, err := s.creds.GetCredential(ctx, storage.KeyRefreshToken); err != nil {
			s.logger.Info("persisted session has no refresh token, resetting")
			s.user = nil
			s.authenticated = false
			if err := s.persistLocked(ctx); err != nil {
				return err
			}
		}
	}

	s.hydrated = true
	return nil
}

// Login выполняет вход по email и паролю.
// При включенном втором факторе возвращает TwoFactorChallenge, не меняя
// состояние и не сохраняя токены — вход завершает Verify2FA.
func (s *Service) Login(ctx context.Context, email, password string) (*TwoFactorChallenge, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	if resp.Requires2FA {
		return &TwoFactorChallenge{TempToken: resp.TempToken}, nil
	}

	if err := s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}

	if err := s.refreshProfile(ctx); err != nil {
		return nil, err
	}

	return nil, nil
}

// Verify2FA завершает вход, обменивая временный токен и код на пару токенов
func (s *Service) Verify2FA(ctx context.Context, tempToken, code string, isBackupCode bool) error {
	resp, err := s.apiClient.Verify2FA(ctx, api.TwoFactorVerifyRequest{
		TempToken:    tempToken,
		Code:         code,
		IsBackupCode: isBackupCode,
	})
	if err != nil {
		return err
	}

	if err := s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}

	return s.refreshProfile(ctx)
}

// Send2FAEmail запрашивает отправку кода второго фактора на email.
// Состояние не меняется.
func (s *Service) Send2FAEmail(ctx context.Context, tempToken string) error {
	return s.apiClient.Send2FAEmail(ctx, api.TwoFactorEmailRequest{TempToken: tempToken})
}

// SocialLogin выполняет вход через внешнего провайдера
func (s *Service) SocialLogin(ctx context.Context, provider, code string) error {
	resp, err := s.apiClient.SocialLogin(ctx, provider, api.SocialLoginRequest{Code: code})
	if err != nil {
		return err
	}

	if err := s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}

	return s.refreshProfile(ctx)
}

// Register создает аккаунт. Профиль берется прямо из ответа регистрации,
// без повторного запроса.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := validation.ValidateEmail(req.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, req)
	if err != nil {
		return err
	}

	if err := s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = profileToUser(&resp.User)
	s.authenticated = true
	return s.persistLocked(ctx)
}

// Logout завершает сессию.
// Сервер уведомляется best effort: недоступный backend не мешает
// локальному выходу. Токены и состояние чистятся безусловно.
func (s *Service) Logout(ctx context.Context) error {
	// 1. Пытаемся уведомить сервер об инвалидации refresh token
	refreshToken, err := s.creds.GetCredential(ctx, storage.KeyRefreshToken)
	if err != nil {
		slog.Debug("no refresh token found during logout", "error", err)
	} else {
		if logoutErr := s.apiClient.Logout(ctx, api.LogoutRequest{RefreshToken: refreshToken}); logoutErr != nil {
			// Не прерываем процесс, если сервер недоступен
			slog.Warn("failed to logout on server", "error", logoutErr)
		}
	}

	// 2. Всегда чистим локальные токены
	if err := s.creds.DeleteCredential(ctx, storage.KeyAccessToken); err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}
	if err := s.creds.DeleteCredential(ctx, storage.KeyRefreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	// 3. Сбрасываем состояние сессии
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.socialAccounts = nil
	return s.persistLocked(ctx)
}

// FetchProfile перечитывает профиль текущего пользователя.
// Неудача трактуется как невалидная сессия: состояние сбрасывается,
// ошибка наружу не пробрасывается.
func (s *Service) FetchProfile(ctx context.Context) {
	if err := s.refreshProfile(ctx); err != nil {
		s.logger.Warn("profile fetch failed, session reset", "error", err)
	}
}

// UpdateProfile отправляет частичное обновление и перечитывает полный
// профиль. Оптимистичного локального мержа нет — источник истины сервер.
func (s *Service) UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) error {
	if err := s.apiClient.UpdateProfile(ctx, req); err != nil {
		return err
	}
	return s.refreshProfile(ctx)
}

// FetchSocialAccounts перечитывает список привязанных аккаунтов.
// Ошибки только логируются.
func (s *Service) FetchSocialAccounts(ctx context.Context) {
	resp, err := s.apiClient.GetSocialAccounts(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch social accounts", "error", err)
		return
	}

	accounts := make([]models.SocialAccount, 0, len(resp.Accounts))
	for _, acc := range resp.Accounts {
		accounts = append(accounts, models.SocialAccount{
			Provider:    acc.Provider,
			ExternalID:  acc.ExternalID,
			ConnectedAt: time.Unix(acc.ConnectedAt, 0),
		})
	}

	s.mu.Lock()
	s.socialAccounts = accounts
	s.mu.Unlock()
}

// DisconnectSocialAccount отвязывает провайдера и перечитывает список
func (s *Service) DisconnectSocialAccount(ctx context.Context, provider string) error {
	err := s.apiClient.DisconnectSocialAccount(ctx, api.SocialDisconnectRequest{Provider: provider})
	if err != nil {
		return err
	}

	s.FetchSocialAccounts(ctx)
	return nil
}

// HandleForcedLogout сбрасывает состояние после принудительного logout.
// Токены к этому моменту уже удалены HTTP клиентом. Подписывается на
// events.Hub при старте приложения.
func (s *Service) HandleForcedLogout() {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.socialAccounts = nil
	if err := s.persistLocked(ctx); err != nil {
		s.logger.Warn("failed to persist session after forced logout", "error", err)
	}
}

// User возвращает профиль текущего пользователя или nil
func (s *Service) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated возвращает флаг аутентификации
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// HasHydrated сообщает, загружено ли персистированное состояние.
// До true решения об авторизации принимать нельзя.
func (s *Service) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// SocialAccounts возвращает список привязанных аккаунтов
func (s *Service) SocialAccounts() []models.SocialAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]models.SocialAccount, len(s.socialAccounts))
	copy(accounts, s.socialAccounts)
	return accounts
}

// storeTokens сохраняет пару токенов в credential хранилище
func (s *Service) storeTokens(ctx context.Context, accessToken, refreshToken string) error {
	ttl := httpClient.AccessTokenLifetime(accessToken)
	if err := s.creds.SaveCredential(ctx, storage.KeyAccessToken, accessToken, ttl); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if err := s.creds.SaveCredential(ctx, storage.KeyRefreshToken, refreshToken, storage.RefreshTokenTTL); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// refreshProfile перечитывает профиль с сервера.
// Успех делает сессию аутентифицированной, неудача сбрасывает ее —
// ошибка возвращается для логирования/проброса вызывающим.
func (s *Service) refreshProfile(ctx context.Context) error {
	profile, err := s.apiClient.GetProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.user = nil
		s.authenticated = false
		if persistErr := s.persistLocked(ctx); persistErr != nil {
			s.logger.Warn("failed to persist session reset", "error", persistErr)
		}
		return err
	}

	s.user = profileToUser(profile)
	s.authenticated = true
	return s.persistLocked(ctx)
}

// persistLocked сохраняет снапшот {user, isAuthenticated}.
// Вызывается только под s.mu.
func (s *Service) persistLocked(ctx context.Context) error {
	snap := &storage.SessionSnapshot{
		User:            s.user,
		IsAuthenticated: s.authenticated,
	}
	if err := s.snapshots.SaveSession(ctx, snap); err != nil {
		return fmt.Errorf("failed to persist session snapshot: %w", err)
	}
	return nil
}

// profileToUser конвертирует API профиль во внутреннюю модель
func profileToUser(p *api.UserProfile) *models.User {
	return &models.User{
		ID:               p.ID,
		Email:            p.Email,
		Username:         p.Username,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		AvatarURL:        p.AvatarURL,
		AddressLine:      p.AddressLine,
		City:             p.City,
		PostalCode:       p.PostalCode,
		Country:          p.Country,
		IsVerified:       p.IsVerified,
		IsStaff:          p.IsStaff,
		TwoFactorEnabled: p.TwoFactorEnabled,
	}
}
