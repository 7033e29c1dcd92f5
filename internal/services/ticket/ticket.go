// Package services содержит бизнес-логику покупки билетов.
//
// Сервис не работает со счётчиком проданных билетов напрямую: атомарность
// обеспечивает транзакция хранилища, а здесь выполняется валидация запроса,
// ограниченное число повторов при конфликтах фиксации и побочные действия
// после коммита (метрики, инвалидация кеша, уведомления).
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-ticketing/internal/lib/sl"
	"github.com/magabrotheeeer/event-ticketing/internal/metrics"
	"github.com/magabrotheeeer/event-ticketing/internal/models"
	eventservice "github.com/magabrotheeeer/event-ticketing/internal/services/event"
)

// Количество повторов покупки при конфликте транзакций и базовая задержка
// между ними. Повторы ограничены: бесконечный цикл недопустим.
const (
	maxPurchaseRetries = 3
	retryBackoff       = 50 * time.Millisecond
)

// TicketRepository определяет методы для работы с билетами в хранилище.
type TicketRepository interface {
	// PurchaseTickets атомарно продаёт билеты и возвращает запись о покупке.
	PurchaseTickets(ctx context.Context, username string, eventID, quantity int) (*models.Ticket, error)
	// ListTicketsByUsername возвращает покупки пользователя с пагинацией.
	ListTicketsByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Ticket, error)
}

// Notifier публикует уведомление о совершённой покупке.
type Notifier interface {
	PublishPurchase(ticket *models.Ticket) error
}

// TicketService реализует бизнес-логику покупки билетов.
type TicketService struct {
	repo     TicketRepository
	cache    eventservice.Cache
	notifier Notifier
	log      *slog.Logger
}

// NewTicketService создает новый экземпляр TicketService.
// notifier может быть nil, тогда уведомления не публикуются.
func NewTicketService(repo TicketRepository, cache eventservice.Cache, notifier Notifier, log *slog.Logger) *TicketService {
	return &TicketService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Purchase покупает quantity билетов на событие eventID для пользователя username.
//
// Количество проверяется до входа в транзакцию; проверка остатка билетов
// выполняется только внутри неё, на свежих данных. При конфликте фиксации
// операция повторяется ограниченное число раз, после чего вызывающему
// возвращается models.ErrTransientConflict.
func (s *TicketService) Purchase(ctx context.Context, username string, eventID, quantity int) (*models.Ticket, error) {
	const op = "services.ticket.Purchase"

	if quantity < 1 || quantity > models.MaxPurchaseQuantity {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}

	var ticket *models.Ticket
	var err error
	for attempt := 1; attempt <= maxPurchaseRetries; attempt++ {
		ticket, err = s.repo.PurchaseTickets(ctx, username, eventID, quantity)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrTransientConflict) {
			if models.IsInsufficientCapacity(err) {
				metrics.OversellRejections.Inc()
			}
			return nil, err
		}

		metrics.PurchaseConflicts.Inc()
		s.log.Warn("purchase transaction conflict, retrying",
			slog.Int("attempt", attempt), slog.Int("event_id", eventID), sl.Err(err))

		// После последней попытки ждать нечего
		if attempt == maxPurchaseRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	if err != nil {
		return nil, err
	}

	metrics.PurchasesTotal.Inc()
	s.log.Info("ticket purchased",
		slog.String("uid", ticket.UID),
		slog.String("username", username),
		slog.Int("event_id", eventID),
		slog.Int("quantity", quantity))

	if err := s.cache.Invalidate(eventservice.ListCacheKey); err != nil {
		s.log.Warn("failed to invalidate events cache", slog.Any("err", err))
	}

	if s.notifier != nil {
		if err := s.notifier.PublishPurchase(ticket); err != nil {
			// Уведомление не влияет на уже зафиксированную покупку
			s.log.Warn("failed to publish purchase notification", sl.Err(err))
		}
	}

	return ticket, nil
}

// List возвращает покупки пользователя с пагинацией.
func (s *TicketService) List(ctx context.Context, username string, limit, offset int) ([]*models.Ticket, error) {
	return s.repo.ListTicketsByUsername(ctx, username, limit, offset)
}
