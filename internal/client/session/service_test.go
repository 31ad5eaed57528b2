package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopclient/internal/client/storage"
	"github.com/iudanet/shopclient/pkg/api"
)

// fakeAPI implements httpClient.ClientAPI for testing
type fakeAPI struct {
	loginResp  *api.LoginResponse
	loginErr   error
	loginCalls int

	verifyResp  *api.TokenResponse
	verifyErr   error
	verifyCalls int

	emailErr   error
	emailCalls int

	socialResp  *api.TokenResponse
	socialErr   error
	socialCalls int

	registerResp  *api.RegisterResponse
	registerErr   error
	registerCalls int

	profileResp  *api.UserProfile
	profileErr   error
	profileCalls int

	updateErr   error
	updateCalls int

	logoutErr     error
	logoutCalls   int
	logoutRefresh string

	accountsResp  *api.SocialAccountsResponse
	accountsErr   error
	accountsCalls int

	disconnectErr   error
	disconnectCalls int
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Verify2FA(ctx context.Context, req api.TwoFactorVerifyRequest) (*api.TokenResponse, error) {
	f.verifyCalls++
	return f.verifyResp, f.verifyErr
}

func (f *fakeAPI) Send2FAEmail(ctx context.Context, req api.TwoFactorEmailRequest) error {
	f.emailCalls++
	return f.emailErr
}

func (f *fakeAPI) SocialLogin(ctx context.Context, provider string, req api.SocialLoginRequest) (*api.TokenResponse, error) {
	f.socialCalls++
	return f.socialResp, f.socialErr
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	f.registerCalls++
	return f.registerResp, f.registerErr
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*api.UserProfile, error) {
	f.profileCalls++
	return f.profileResp, f.profileErr
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeAPI) Logout(ctx context.Context, req api.LogoutRequest) error {
	f.logoutCalls++
	f.logoutRefresh = req.RefreshToken
	return f.logoutErr
}

func (f *fakeAPI) GetSocialAccounts(ctx context.Context) (*api.SocialAccountsResponse, error) {
	f.accountsCalls++
	return f.accountsResp, f.accountsErr
}

func (f *fakeAPI) DisconnectSocialAccount(ctx context.Context, req api.SocialDisconnectRequest) error {
	f.disconnectCalls++
	return f.disconnectErr
}

// memCredentials implements storage.CredentialStorage in memory
type memCredentials struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCredentials() *memCredentials {
	return &memCredentials{data: make(map[string]string)}
}

func (m *memCredentials) SaveCredential(ctx context.Context, name, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = value
	return nil
}

func (m *memCredentials) GetCredential(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[name]
	if !ok {
		return "", storage.ErrCredentialNotFound
	}
	return value, nil
}

func (m *memCredentials) DeleteCredential(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// memSnapshots implements storage.SessionStorage in memory
type memSnapshots struct {
	mu      sync.Mutex
	snap    *storage.SessionSnapshot
	saveErr error
	saves   int
}

func (m *memSnapshots) SaveSession(ctx context.Context, snap *storage.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *snap
	m.snap = &copied
	m.saves++
	return nil
}

func (m *memSnapshots) GetSession(ctx context.Context) (*storage.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, storage.ErrSessionNotFound
	}
	copied := *m.snap
	return &copied, nil
}

func (m *memSnapshots) DeleteSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

func testProfile() *api.UserProfile {
	return &api.UserProfile{
		ID:       "user-123",
		Email:    "user@example.com",
		Username: "testuser",
	}
}

func newTestService(apiClient *fakeAPI) (*Service, *memCredentials, *memSnapshots) {
	creds := newMemCredentials()
	snapshots := &memSnapshots{}
	svc := NewService(apiClient, creds, snapshots, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, creds, snapshots
}

// TestService_Login_Success проверяет полный вход без второго фактора
func TestService_Login_Success(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:   &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileResp: testProfile(),
	}
	svc, creds, snapshots := newTestService(apiClient)

	challenge, err := svc.Login(ctx, "user@example.com", "password123")

	require.NoError(t, err)
	assert.Nil(t, challenge)
	assert.True(t, svc.IsAuthenticated())
	require.NotNil(t, svc.User())
	assert.Equal(t, "testuser", svc.User().Username)

	// Токены сохранены
	access, err := creds.GetCredential(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)
	refresh, err := creds.GetCredential(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", refresh)

	// Снапшот персистирован
	snap, err := snapshots.GetSession(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "user-123", snap.User.ID)
}

// TestService_Login_TwoFactorBranch проверяет промежуточное состояние 2FA:
// вход не завершен, токены не сохранены, isAuthenticated не изменился
func TestService_Login_TwoFactorBranch(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp: &api.LoginResponse{Requires2FA: true, TempToken: "temp-42"},
	}
	svc, creds, _ := newTestService(apiClient)

	challenge, err := svc.Login(ctx, "user@example.com", "password123")

	require.NoError(t, err)
	require.NotNil(t, challenge)
	assert.Equal(t, "temp-42", challenge.TempToken)

	// Состояние не изменилось
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())
	assert.Equal(t, 0, apiClient.profileCalls)

	// Никакие токены не сохранены
	_, err = creds.GetCredential(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrCredentialNotFound)
	_, err = creds.GetCredential(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, err, storage.ErrCredentialNotFound)
}

// TestService_Verify2FA завершает вход вторым фактором
func TestService_Verify2FA(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		verifyResp:  &api.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"},
		profileResp: testProfile(),
	}
	svc, creds, _ := newTestService(apiClient)

	err := svc.Verify2FA(ctx, "temp-42", "123456", false)

	require.NoError(t, err)
	assert.True(t, svc.IsAuthenticated())

	access, err := creds.GetCredential(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
}

// TestService_Login_ValidationFails проверяет, что невалидный ввод
// не доходит до сети
func TestService_Login_ValidationFails(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{}
	svc, _, _ := newTestService(apiClient)

	_, err := svc.Login(ctx, "not-an-email", "password123")
	assert.Error(t, err)

	_, err = svc.Login(ctx, "user@example.com", "short")
	assert.Error(t, err)

	assert.Equal(t, 0, apiClient.loginCalls)
}

// TestService_Login_ProfileFetchFails проверяет, что неудачное чтение
// профиля сразу после входа оставляет сессию неаутентифицированной
func TestService_Login_ProfileFetchFails(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:  &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileErr: fmt.Errorf("server error (500): boom"),
	}
	svc, _, _ := newTestService(apiClient)

	_, err := svc.Login(ctx, "user@example.com", "password123")

	require.Error(t, err)
	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())
}

// TestService_SocialLogin проверяет вход через внешнего провайдера
func TestService_SocialLogin(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		socialResp:  &api.TokenResponse{AccessToken: "access-3", RefreshToken: "refresh-3"},
		profileResp: testProfile(),
	}
	svc, creds, _ := newTestService(apiClient)

	err := svc.SocialLogin(ctx, "google", "auth-code")

	require.NoError(t, err)
	assert.True(t, svc.IsAuthenticated())

	refresh, err := creds.GetCredential(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-3", refresh)
}

// TestService_Register проверяет, что профиль берется из ответа
// регистрации без повторного запроса
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		registerResp: &api.RegisterResponse{
			User:         *testProfile(),
			AccessToken:  "access-4",
			RefreshToken: "refresh-4",
		},
	}
	svc, creds, snapshots := newTestService(apiClient)

	err := svc.Register(ctx, api.RegisterRequest{
		Email:    "user@example.com",
		Username: "testuser",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.True(t, svc.IsAuthenticated())
	require.NotNil(t, svc.User())
	assert.Equal(t, "user-123", svc.User().ID)

	// GetProfile не вызывался
	assert.Equal(t, 0, apiClient.profileCalls)

	access, err := creds.GetCredential(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access-4", access)

	snap, err := snapshots.GetSession(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsAuthenticated)
}

// TestService_Logout_Unconditional проверяет, что logout срабатывает
// локально даже при недоступном сервере
func TestService_Logout_Unconditional(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:   &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileResp: testProfile(),
		logoutErr:   fmt.Errorf("request failed: connection refused"),
	}
	svc, creds, snapshots := newTestService(apiClient)

	_, err := svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	require.True(t, svc.IsAuthenticated())

	// Сервер недоступен, но logout обязан сработать
	err = svc.Logout(ctx)
	require.NoError(t, err)

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())

	// Сервер уведомлялся с refresh token
	assert.Equal(t, 1, apiClient.logoutCalls)
	assert.Equal(t, "refresh-1", apiClient.logoutRefresh)

	// Оба токена удалены
	_, err = creds.GetCredential(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrCredentialNotFound)
	_, err = creds.GetCredential(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, err, storage.ErrCredentialNotFound)

	// Снапшот сброшен
	snap, err := snapshots.GetSession(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

// TestService_Logout_NoRefreshToken проверяет logout без сохраненных токенов
func TestService_Logout_NoRefreshToken(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{}
	svc, _, _ := newTestService(apiClient)

	err := svc.Logout(ctx)
	require.NoError(t, err)

	// Без refresh token серверу нечего инвалидировать
	assert.Equal(t, 0, apiClient.logoutCalls)
	assert.False(t, svc.IsAuthenticated())
}

// TestService_FetchProfile_FailureResets проверяет, что неудачное чтение
// профиля молча сбрасывает сессию
func TestService_FetchProfile_FailureResets(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:   &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileResp: testProfile(),
	}
	svc, _, snapshots := newTestService(apiClient)

	_, err := svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	require.True(t, svc.IsAuthenticated())

	// Следующее чтение профиля падает
	apiClient.profileErr = fmt.Errorf("server error (401): unauthorized")
	apiClient.profileResp = nil

	svc.FetchProfile(ctx)

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())

	snap, err := snapshots.GetSession(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsAuthenticated)
}

// TestService_UpdateProfile проверяет перечитывание профиля после patch:
// локального мержа нет, источник истины сервер
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:   &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileResp: testProfile(),
	}
	svc, _, _ := newTestService(apiClient)

	_, err := svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	updated := testProfile()
	updated.City = "Riga"
	apiClient.profileResp = updated

	city := "Riga"
	err = svc.UpdateProfile(ctx, api.ProfileUpdateRequest{City: &city})

	require.NoError(t, err)
	assert.Equal(t, 1, apiClient.updateCalls)
	assert.Equal(t, 2, apiClient.profileCalls) // login + update
	assert.Equal(t, "Riga", svc.User().City)
}

// TestService_UpdateProfile_PatchFails проверяет проброс ошибки patch
// без перечитывания профиля
func TestService_UpdateProfile_PatchFails(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		updateErr: fmt.Errorf("server error (400): invalid phone"),
	}
	svc, _, _ := newTestService(apiClient)

	phone := "not-a-phone"
	err := svc.UpdateProfile(ctx, api.ProfileUpdateRequest{Phone: &phone})

	require.Error(t, err)
	assert.Equal(t, 0, apiClient.profileCalls)
}

// TestService_FetchSocialAccounts проверяет загрузку списка привязок
// и замалчивание ошибок
func TestService_FetchSocialAccounts(t *testing.T) {
	ctx := context.Background()
	linkedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	apiClient := &fakeAPI{
		accountsResp: &api.SocialAccountsResponse{
			Accounts: []api.SocialAccount{
				{Provider: "google", ExternalID: "g-1", ConnectedAt: linkedAt.Unix()},
			},
		},
	}
	svc, _, _ := newTestService(apiClient)

	svc.FetchSocialAccounts(ctx)

	accounts := svc.SocialAccounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "google", accounts[0].Provider)
	assert.True(t, accounts[0].ConnectedAt.Equal(linkedAt))

	// Ошибка запроса не стирает список и не пробрасывается
	apiClient.accountsErr = fmt.Errorf("request failed: timeout")
	apiClient.accountsResp = nil
	assert.NotPanics(t, func() { svc.FetchSocialAccounts(ctx) })
	assert.Len(t, svc.SocialAccounts(), 1)
}

// TestService_DisconnectSocialAccount проверяет отвязку провайдера
// с перечитыванием списка
func TestService_DisconnectSocialAccount(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		accountsResp: &api.SocialAccountsResponse{Accounts: []api.SocialAccount{}},
	}
	svc, _, _ := newTestService(apiClient)

	err := svc.DisconnectSocialAccount(ctx, "google")

	require.NoError(t, err)
	assert.Equal(t, 1, apiClient.disconnectCalls)
	assert.Equal(t, 1, apiClient.accountsCalls)
}

// TestService_HandleForcedLogout проверяет реакцию на принудительный logout
func TestService_HandleForcedLogout(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{
		loginResp:   &api.LoginResponse{AccessToken: "access-1", RefreshToken: "refresh-1"},
		profileResp: testProfile(),
	}
	svc, _, snapshots := newTestService(apiClient)

	_, err := svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	require.True(t, svc.IsAuthenticated())

	svc.HandleForcedLogout()

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())

	snap, err := snapshots.GetSession(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsAuthenticated)
}

// TestService_Send2FAEmail проверяет запрос кода на email без смены состояния
func TestService_Send2FAEmail(t *testing.T) {
	ctx := context.Background()
	apiClient := &fakeAPI{}
	svc, _, _ := newTestService(apiClient)

	err := svc.Send2FAEmail(ctx, "temp-42")

	require.NoError(t, err)
	assert.Equal(t, 1, apiClient.emailCalls)
	assert.False(t, svc.IsAuthenticated())
}
