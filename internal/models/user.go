package models

import "time"

// User представляет профиль покупателя в клиентском состоянии
type User struct {
	ID               string `json:"id"`                 // UUID пользователя
	Email            string `json:"email"`              // email
	Username         string `json:"username"`           // уникальный username
	FirstName        string `json:"first_name"`         // имя
	LastName         string `json:"last_name"`          // фамилия
	Phone            string `json:"phone"`              // телефон
	AvatarURL        string `json:"avatar_url"`         // ссылка на аватар
	AddressLine      string `json:"address_line"`       // адрес доставки
	City             string `json:"city"`               // город
	PostalCode       string `json:"postal_code"`        // почтовый индекс
	Country          string `json:"country"`            // страна
	IsVerified       bool   `json:"is_verified"`        // email подтвержден
	IsStaff          bool   `json:"is_staff"`           // сотрудник магазина
	TwoFactorEnabled bool   `json:"two_factor_enabled"` // включен второй фактор
}

// SocialAccount представляет привязанный аккаунт внешнего провайдера
// Список привязок не персистится и всегда перечитывается с сервера
type SocialAccount struct {
	Provider    string    `json:"provider"`     // google, github, ...
	ExternalID  string    `json:"external_id"`  // ID пользователя у провайдера
	ConnectedAt time.Time `json:"connected_at"` // время привязки
}
