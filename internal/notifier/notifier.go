// Package notifier публикует уведомления о покупках билетов в RabbitMQ.
package notifier

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/event-ticketing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// PurchaseMessage — тело уведомления о покупке.
type PurchaseMessage struct {
	TicketUID    string `json:"ticket_uid"`
	Username     string `json:"username"`
	EventID      int    `json:"event_id"`
	Quantity     int    `json:"quantity"`
	PurchaseDate string `json:"purchase_date"`
}

// PurchaseNotifier публикует уведомления в exchange "tickets"
// с ключом маршрутизации "purchased".
type PurchaseNotifier struct {
	ch *amqp.Channel
}

// New создает PurchaseNotifier поверх открытого канала.
func New(ch *amqp.Channel) *PurchaseNotifier {
	return &PurchaseNotifier{ch: ch}
}

// PublishPurchase публикует уведомление о совершённой покупке.
func (n *PurchaseNotifier) PublishPurchase(ticket *models.Ticket) error {
	msg := PurchaseMessage{
		TicketUID:    ticket.UID,
		Username:     ticket.Username,
		EventID:      ticket.EventID,
		Quantity:     ticket.Quantity,
		PurchaseDate: ticket.PurchaseDate.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	return rabbitmq.PublishMessage(n.ch, "tickets", "purchased", msg)
}
