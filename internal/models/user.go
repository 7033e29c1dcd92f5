// Package models содержит доменные структуры системы продажи билетов:
// пользователей, события и билеты, а также вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей. Роль фиксируется при регистрации,
// отдельного пути повышения роли не существует.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя, уникально
	PasswordHash string    // bcrypt-хэш пароля, исходный пароль нигде не хранится
	Role         string    // Роль пользователя: admin или user
	IsActive     bool      // Признак активной учётной записи
	CreatedAt    time.Time // Дата создания учётной записи
}
