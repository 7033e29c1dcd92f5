package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase поднимает контейнер PostgreSQL и создает схему для тестов.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	port, err := container.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get host")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.Pool.Exec(ctx, `
        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE events (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            date DATE NOT NULL,
            total_tickets INT NOT NULL CHECK (total_tickets >= 0),
            tickets_sold INT NOT NULL DEFAULT 0
                CHECK (tickets_sold >= 0 AND tickets_sold <= total_tickets)
        );

        CREATE TABLE tickets (
            uid UUID PRIMARY KEY,
            username TEXT NOT NULL REFERENCES users (username),
            event_id INT NOT NULL REFERENCES events (id),
            quantity INT NOT NULL CHECK (quantity >= 1),
            purchase_date TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create schema")

	cleanup := func() {
		storage.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, username, passwordHash, role string) {
	t.Helper()
	_, err := f.storage.Pool.Exec(context.Background(),
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
		username, passwordHash, role)
	require.NoError(t, err)
}

// CreateEvent создает тестовое событие и возвращает его ID
func (f *TestDataFactory) CreateEvent(t *testing.T, name string, date time.Time, totalTickets, ticketsSold int) int {
	t.Helper()
	var id int
	err := f.storage.Pool.QueryRow(context.Background(),
		`INSERT INTO events (name, date, total_tickets, tickets_sold)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		name, date, totalTickets, ticketsSold).Scan(&id)
	require.NoError(t, err)
	return id
}

// EventSnapshot возвращает текущие значения счётчиков события
func (f *TestDataFactory) EventSnapshot(t *testing.T, eventID int) (totalTickets, ticketsSold int) {
	t.Helper()
	err := f.storage.Pool.QueryRow(context.Background(),
		`SELECT total_tickets, tickets_sold FROM events WHERE id = $1`,
		eventID).Scan(&totalTickets, &ticketsSold)
	require.NoError(t, err)
	return totalTickets, ticketsSold
}

// CountTickets возвращает количество записей о покупках для события
func (f *TestDataFactory) CountTickets(t *testing.T, eventID int) int {
	t.Helper()
	var count int
	err := f.storage.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&count)
	require.NoError(t, err)
	return count
}
