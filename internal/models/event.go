package models

import "time"

// Event представляет событие с фиксированной вместимостью.
// Инвариант 0 <= TicketsSold <= TotalTickets поддерживается аллокатором покупок
// и дублируется check-ограничением в базе данных.
type Event struct {
	ID           int       // Идентификатор события
	Name         string    // Название события
	Date         time.Time // Дата проведения
	TotalTickets int       // Вместимость, фиксируется при создании
	TicketsSold  int       // Количество проданных билетов, меняется только аллокатором
}

// Remaining возвращает количество ещё непроданных билетов.
func (e *Event) Remaining() int {
	return e.TotalTickets - e.TicketsSold
}

// DummyEvent используется для приёма данных о новом событии из JSON-запроса,
// прежде чем конвертировать их в Event. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyEvent struct {
	Name         string `json:"name" validate:"required"`                // Название события
	Date         string `json:"date" validate:"required"`                // Дата в формате 02-01-2006
	TotalTickets *int   `json:"total_tickets" validate:"required,gte=0"` // Вместимость (>= 0)
}
