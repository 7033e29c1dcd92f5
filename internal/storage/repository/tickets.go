package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// PurchaseTickets атомарно продаёт quantity билетов на событие eventID.
//
// Вся операция выполняется в одной транзакции: строка события блокируется
// через SELECT ... FOR UPDATE, поэтому две конкурентные покупки на одно
// событие сериализуются и не могут прочитать одно и то же значение
// tickets_sold. Проверка остатка выполняется на свежих данных внутри
// транзакции; при нехватке билетов транзакция откатывается без каких-либо
// изменений и возвращается InsufficientCapacityError с актуальным остатком.
//
// Счётчик tickets_sold и запись в tickets фиксируются одним коммитом:
// частичный эффект (обновлённый счётчик без билета или наоборот)
// наблюдать невозможно. Конфликт фиксации транслируется в
// models.ErrTransientConflict, повторные попытки выполняет вызывающий слой.
func (s *Storage) PurchaseTickets(ctx context.Context, username string, eventID, quantity int) (*models.Ticket, error) {
	const op = "storage.PurchaseTickets"

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var totalTickets, ticketsSold int
	lockQuery := `SELECT total_tickets, tickets_sold
				  FROM events
				  WHERE id = $1
				  FOR UPDATE`
	if err = tx.QueryRow(ctx, lockQuery, eventID).Scan(&totalTickets, &ticketsSold); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEventNotFound)
		}
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTransientConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if ticketsSold+quantity > totalTickets {
		return nil, fmt.Errorf("%s: %w", op,
			&models.InsufficientCapacityError{Remaining: totalTickets - ticketsSold})
	}

	updateQuery := `UPDATE events
					SET tickets_sold = tickets_sold + $1
					WHERE id = $2`
	if _, err = tx.Exec(ctx, updateQuery, quantity, eventID); err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTransientConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ticket := &models.Ticket{
		UID:      uuid.New().String(),
		Username: username,
		EventID:  eventID,
		Quantity: quantity,
	}
	insertQuery := `INSERT INTO tickets (uid, username, event_id, quantity)
					VALUES ($1, $2, $3, $4)
					RETURNING purchase_date;`
	if err = tx.QueryRow(ctx, insertQuery,
		ticket.UID, ticket.Username, ticket.EventID, ticket.Quantity).Scan(&ticket.PurchaseDate); err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTransientConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		if isRetryableTxError(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTransientConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ticket, nil
}

// ListTicketsByUsername возвращает покупки пользователя в порядке их совершения.
func (s *Storage) ListTicketsByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Ticket, error) {
	const op = "storage.ListTicketsByUsername"

	query := `SELECT uid, username, event_id, quantity, purchase_date
			  FROM tickets
			  WHERE username = $1
			  ORDER BY purchase_date
			  LIMIT $2 OFFSET $3`
	rows, err := s.Pool.Query(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err = rows.Scan(&t.UID, &t.Username, &t.EventID, &t.Quantity, &t.PurchaseDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumQuantityByEvent возвращает суммарное количество билетов,
// проданных на событие, по записям в tickets.
func (s *Storage) SumQuantityByEvent(ctx context.Context, eventID int) (int, error) {
	const op = "storage.SumQuantityByEvent"

	var res *int
	err := s.Pool.QueryRow(ctx, `
		SELECT SUM(quantity)
		FROM tickets
		WHERE event_id = $1`, eventID).Scan(&res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if res == nil {
		return 0, nil
	}
	return *res, nil
}
