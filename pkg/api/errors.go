package api

import "fmt"

// StatusError представляет ошибку HTTP запроса с кодом ответа сервера
// Позволяет вызывающему коду различать типы ошибок через errors.As
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsUnauthorized сообщает, является ли ошибка отказом в авторизации (401)
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == 401
}
