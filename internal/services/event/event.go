// Package services содержит бизнес-логику для управления событиями и кеширования их списка.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// ListCacheKey — ключ кеша для списка событий.
// Инвалидируется при создании события и при каждой успешной покупке.
const ListCacheKey = "events:list"

// listPage — закешированная первая страница списка событий вместе с limit,
// с которым её запрашивали. Limit нужен, чтобы понять, полна ли страница:
// неполная страница содержит все существующие события.
type listPage struct {
	Limit  int             `json:"limit"`
	Events []*models.Event `json:"events"`
}

// EventRepository определяет методы для работы с событиями в хранилище.
type EventRepository interface {
	// CreateEvent добавляет новое событие и возвращает его ID.
	CreateEvent(ctx context.Context, event models.Event) (int, error)
	// GetEvent возвращает событие по ID.
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	// ListEvents возвращает список событий с пагинацией.
	ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventService реализует бизнес-логику работы с событиями, включая кеширование списка.
type EventService struct {
	repo  EventRepository
	cache Cache
	log   *slog.Logger
}

// NewEventService создает новый экземпляр EventService.
func NewEventService(repo EventRepository, cache Cache, log *slog.Logger) *EventService {
	return &EventService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новое событие с нулевым счётчиком проданных билетов.
// Вместимость не может быть отрицательной.
func (s *EventService) Create(ctx context.Context, req models.DummyEvent) (int, error) {
	const op = "services.event.Create"

	date, err := time.Parse("02-01-2006", req.Date)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}
	if req.TotalTickets == nil || *req.TotalTickets < 0 {
		return 0, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}

	event := models.Event{
		Name:         req.Name,
		Date:         date,
		TotalTickets: *req.TotalTickets,
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new event", slog.Int("id", id), slog.String("name", event.Name))

	if err := s.cache.Invalidate(ListCacheKey); err != nil {
		s.log.Warn("failed to invalidate events cache", slog.String("key", ListCacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Get возвращает событие по ID.
func (s *EventService) Get(ctx context.Context, id int) (*models.Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// List возвращает список событий, используя кеш или репозиторий.
// Кешируется только первая страница без смещения: её запрашивают чаще всего.
func (s *EventService) List(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	if offset == 0 {
		var cached listPage
		found, err := s.cache.Get(ListCacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read events cache", slog.Any("err", err))
		}
		// Страница пригодна, только если она заведомо полна для запроса:
		// либо в ней хватает событий, либо она не заполнилась до своего
		// limit и значит содержит вообще все события.
		if found && (len(cached.Events) >= limit || len(cached.Events) < cached.Limit) {
			if len(cached.Events) > limit {
				return cached.Events[:limit], nil
			}
			return cached.Events, nil
		}
	}

	events, err := s.repo.ListEvents(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if offset == 0 {
		if err := s.cache.Set(ListCacheKey, listPage{Limit: limit, Events: events}, time.Minute); err != nil {
			s.log.Warn("failed to cache events", slog.String("key", ListCacheKey), slog.Any("err", err))
		}
	}

	return events, nil
}
