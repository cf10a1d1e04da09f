package apperrors

import "net/http"

/*
Предопределенные доменные ошибки и фабрики.
Сообщения для login и invite намеренно не различают причину отказа,
чтобы не давать перечислять пользователей и инвайты.
*/

// ErrInvalidCredentials - неверный логин ИЛИ пароль (одно сообщение для обоих случаев)
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusBadRequest,
)

// ErrInvalidInvite - инвайт не найден, уже использован или email не совпал
var ErrInvalidInvite = New(
	CodeInvalidInvite,
	"invite",
	"Invalid invite",
	http.StatusBadRequest,
)

// ErrUsernameTaken - имя пользователя занято
var ErrUsernameTaken = New(
	CodeUsernameTaken,
	"auth",
	"Username already taken",
	http.StatusBadRequest,
)

// ErrInvalidRefreshToken - refresh-токен не найден или истек
var ErrInvalidRefreshToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid refresh token",
	http.StatusUnauthorized,
)

// ErrUserNotFound - пользователь не найден (например, осиротевший refresh-токен)
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusUnauthorized,
)

// ErrInviteExists - инвайт на этот email уже существует
var ErrInviteExists = New(
	CodeAlreadyExists,
	"invite",
	"Invite already exists for specified email",
	http.StatusConflict,
)

// UnsupportedDataType - фабрика для неподдерживаемого типа точки здоровья
func UnsupportedDataType(err error) *AppError {
	return Wrap(err, CodeUnsupportedType, "health_data", "Unsupported health data type", http.StatusBadRequest)
}

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}
