package models

import (
	"errors"
	"fmt"
)

// Ошибки доменного уровня. Слой HTTP-обработчиков сопоставляет их
// со статус-кодами, не раскрывая внутренних деталей наружу.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrEventNotFound      = errors.New("event not found")
	ErrTransientConflict  = errors.New("transient conflict, try again")
)

// InsufficientCapacityError возвращается аллокатором, когда запрошенное
// количество билетов превышает остаток. Remaining — количество билетов,
// доступных на момент проверки внутри транзакции.
type InsufficientCapacityError struct {
	Remaining int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("only %d tickets left", e.Remaining)
}

// IsInsufficientCapacity сообщает, является ли ошибка отказом из-за нехватки билетов.
func IsInsufficientCapacity(err error) bool {
	var capErr *InsufficientCapacityError
	return errors.As(err, &capErr)
}
