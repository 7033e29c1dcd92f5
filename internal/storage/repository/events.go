package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// CreateEvent сохраняет новое событие и возвращает его ID.
// Счётчик проданных билетов нового события всегда равен нулю.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (int, error) {
	const op = "storage.CreateEvent"

	var newID int
	query := `INSERT INTO events (name, date, total_tickets, tickets_sold)
			  VALUES ($1, $2, $3, 0)
			  RETURNING id;`
	if err := s.Pool.QueryRow(ctx, query,
		event.Name, event.Date, event.TotalTickets).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetEvent возвращает событие по его ID.
// Если событие отсутствует, возвращает models.ErrEventNotFound.
func (s *Storage) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	const op = "storage.GetEvent"

	query := `SELECT id, name, date, total_tickets, tickets_sold
			  FROM events
			  WHERE id = $1`
	e := &models.Event{}
	row := s.Pool.QueryRow(ctx, query, id)

	if err := row.Scan(&e.ID, &e.Name, &e.Date, &e.TotalTickets, &e.TicketsSold); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEvents возвращает события в порядке их создания с пагинацией.
func (s *Storage) ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	const op = "storage.ListEvents"

	query := `SELECT id, name, date, total_tickets, tickets_sold
			  FROM events
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		var e models.Event
		if err = rows.Scan(&e.ID, &e.Name, &e.Date, &e.TotalTickets, &e.TicketsSold); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
