package models

import "time"

// Ticket представляет запись о совершённой покупке билетов.
// Записи создаются только внутри транзакции аллокатора покупок,
// никогда не изменяются и не удаляются.
type Ticket struct {
	UID          string    // Уникальный идентификатор покупки
	Username     string    // Имя пользователя-покупателя
	EventID      int       // Идентификатор события
	Quantity     int       // Количество купленных билетов (>= 1)
	PurchaseDate time.Time // Момент покупки, фиксируется при создании
}

// MaxPurchaseQuantity — верхняя граница количества билетов в одной покупке.
// Запросы с большим количеством отклоняются до обращения к базе,
// в том числе значения, переполняющие int при сложении со счётчиком продаж.
const MaxPurchaseQuantity = 1000

// DummyPurchase используется для приёма данных о покупке из JSON-запроса.
type DummyPurchase struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=1000"` // Количество билетов (1..MaxPurchaseQuantity)
}
