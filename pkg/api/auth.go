package api

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// LoginResponse представляет ответ на логин
// Сервер возвращает либо пару токенов, либо промежуточный
// результат с требованием второго фактора
type LoginResponse struct {
	AccessToken  string `json:"access,omitempty"`       // JWT access token
	RefreshToken string `json:"refresh,omitempty"`      // refresh token
	Requires2FA  bool   `json:"requires_2fa,omitempty"` // требуется второй фактор
	TempToken    string `json:"temp_token,omitempty"`   // временный токен для 2FA шага
}

// TwoFactorVerifyRequest представляет запрос на проверку кода второго фактора
type TwoFactorVerifyRequest struct {
	TempToken    string `json:"temp_token"`     // временный токен из LoginResponse
	Code         string `json:"code"`           // код из приложения/письма
	IsBackupCode bool   `json:"is_backup_code"` // код является резервным
}

// TwoFactorEmailRequest представляет запрос на отправку кода по email
type TwoFactorEmailRequest struct {
	TempToken string `json:"temp_token"`
}

// SocialLoginRequest представляет обмен authorization code внешнего провайдера
type SocialLoginRequest struct {
	Code string `json:"code"` // authorization code от провайдера
}

// TokenResponse представляет ответ с парой токенов доступа
type TokenResponse struct {
	AccessToken  string `json:"access"`  // JWT access token
	RefreshToken string `json:"refresh"` // refresh token
}

// RefreshRequest представляет запрос на обновление access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh"`
}

// RefreshResponse представляет ответ с новым access token
type RefreshResponse struct {
	AccessToken string `json:"access"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RegisterResponse представляет ответ на успешную регистрацию
// Сервер сразу возвращает профиль и пару токенов
type RegisterResponse struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"access"`
	RefreshToken string      `json:"refresh"`
}

// UserProfile представляет профиль пользователя в API
type UserProfile struct {
	ID               string `json:"id"`         // UUID пользователя
	Email            string `json:"email"`      // email
	Username         string `json:"username"`   // уникальный username
	FirstName        string `json:"first_name"` // имя
	LastName         string `json:"last_name"`  // фамилия
	Phone            string `json:"phone"`      // телефон
	AvatarURL        string `json:"avatar_url"` // аватар
	AddressLine      string `json:"address_line"`
	City             string `json:"city"`
	PostalCode       string `json:"postal_code"`
	Country          string `json:"country"`
	IsVerified       bool   `json:"is_verified"`        // email подтвержден
	IsStaff          bool   `json:"is_staff"`           // сотрудник магазина
	TwoFactorEnabled bool   `json:"two_factor_enabled"` // включен второй фактор
}

// ProfileUpdateRequest представляет частичное обновление профиля
// nil-поля не отправляются и не изменяются на сервере
type ProfileUpdateRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	AddressLine *string `json:"address_line,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// LogoutRequest представляет уведомление сервера об инвалидации refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh"`
}

// SocialAccount представляет привязанный внешний аккаунт
type SocialAccount struct {
	Provider    string `json:"provider"`     // название провайдера (google, github, ...)
	ExternalID  string `json:"external_id"`  // ID пользователя у провайдера
	ConnectedAt int64  `json:"connected_at"` // unix время привязки
}

// SocialAccountsResponse представляет список привязанных аккаунтов
type SocialAccountsResponse struct {
	Accounts []SocialAccount `json:"accounts"`
}

// SocialDisconnectRequest представляет запрос на отвязку провайдера
type SocialDisconnectRequest struct {
	Provider string `json:"provider"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
