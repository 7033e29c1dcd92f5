// Package policy содержит правила доступа, привязанные к роли пользователя.
// Предикаты чистые и не зависят от транспорта: слой HTTP применяет их
// через middleware, бизнес-логика о ролях ничего не знает.
package policy

import "github.com/magabrotheeeer/event-ticketing/internal/models"

// CanCreateEvent сообщает, может ли пользователь с данной ролью создавать события.
// Создание событий доступно только администраторам.
func CanCreateEvent(role string) bool {
	return role == models.RoleAdmin
}

// CanListEvents сообщает, может ли пользователь с данной ролью просматривать события.
// Список событий доступен любому аутентифицированному пользователю.
func CanListEvents(role string) bool {
	return role == models.RoleAdmin || role == models.RoleUser
}

// CanPurchase сообщает, может ли пользователь с данной ролью покупать билеты.
// Покупка доступна только обычным пользователям: администраторы намеренно
// исключены из числа покупателей.
func CanPurchase(role string) bool {
	return role == models.RoleUser
}
