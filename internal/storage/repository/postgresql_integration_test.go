package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

func TestRegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, models.User{
		Username:     "buyer",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UUID)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.True(t, got.IsActive)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	user := models.User{
		Username:     "buyer",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		IsActive:     true,
	}

	_, err := storage.RegisterUser(ctx, user)
	require.NoError(t, err)

	_, err = storage.RegisterUser(ctx, user)
	assert.ErrorIs(t, err, models.ErrUserAlreadyExists)

	// Повторная регистрация не должна создать вторую запись
	var count int
	err = storage.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, "buyer").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestCreateAndListEvents(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	firstID, err := storage.CreateEvent(ctx, models.Event{Name: "Concert", Date: date, TotalTickets: 100})
	require.NoError(t, err)
	secondID, err := storage.CreateEvent(ctx, models.Event{Name: "Theatre", Date: date, TotalTickets: 40})
	require.NoError(t, err)

	events, err := storage.ListEvents(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, firstID, events[0].ID)
	assert.Equal(t, secondID, events[1].ID)
	assert.Equal(t, 0, events[0].TicketsSold)
	assert.Equal(t, 100, events[0].TotalTickets)
}

func TestGetEvent_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetEvent(context.Background(), 9999)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestPurchaseTickets_Success(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "buyer", "hashedpassword", models.RoleUser)
	eventID := factory.CreateEvent(t, "Concert", time.Now().AddDate(0, 1, 0), 10, 0)

	ticket, err := storage.PurchaseTickets(ctx, "buyer", eventID, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.UID)
	assert.Equal(t, "buyer", ticket.Username)
	assert.Equal(t, 3, ticket.Quantity)
	assert.False(t, ticket.PurchaseDate.IsZero())

	_, sold := factory.EventSnapshot(t, eventID)
	assert.Equal(t, 3, sold)
	assert.Equal(t, 1, factory.CountTickets(t, eventID))
}

func TestPurchaseTickets_EventNotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "buyer", "hashedpassword", models.RoleUser)

	_, err := storage.PurchaseTickets(context.Background(), "buyer", 9999, 1)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestPurchaseTickets_InsufficientCapacity(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "buyer", "hashedpassword", models.RoleUser)
	eventID := factory.CreateEvent(t, "Concert", time.Now().AddDate(0, 1, 0), 5, 3)

	_, err := storage.PurchaseTickets(ctx, "buyer", eventID, 3)
	require.Error(t, err)

	var capErr *models.InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Remaining)

	// Неудачная покупка не оставляет следов: ни в счётчике, ни в билетах
	_, sold := factory.EventSnapshot(t, eventID)
	assert.Equal(t, 3, sold)
	assert.Equal(t, 0, factory.CountTickets(t, eventID))
}

func TestPurchaseTickets_Concurrent_NoOversell(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "buyer", "hashedpassword", models.RoleUser)

	const totalTickets = 50
	const buyers = 100
	eventID := factory.CreateEvent(t, "Hot show", time.Now().AddDate(0, 1, 0), totalTickets, 0)

	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.PurchaseTickets(ctx, "buyer", eventID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, capacityFailures int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case models.IsInsufficientCapacity(err):
			capacityFailures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, totalTickets, successes)
	assert.Equal(t, buyers-totalTickets, capacityFailures)

	// Инвариант: счётчик равен вместимости и сходится с суммой по билетам
	total, sold := factory.EventSnapshot(t, eventID)
	assert.Equal(t, totalTickets, total)
	assert.Equal(t, totalTickets, sold)

	sum, err := storage.SumQuantityByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, sold, sum)
}

func TestPurchaseTickets_Concurrent_TwoBuyers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice", "hashedpassword", models.RoleUser)
	factory.CreateUser(t, "bob", "hashedpassword", models.RoleUser)
	eventID := factory.CreateEvent(t, "Small gig", time.Now().AddDate(0, 1, 0), 5, 0)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, username := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(username string) {
			defer wg.Done()
			_, err := storage.PurchaseTickets(ctx, username, eventID, 3)
			results <- err
		}(username)
	}
	wg.Wait()
	close(results)

	var successes, capacityFailures int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case models.IsInsufficientCapacity(err):
			capacityFailures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Ровно одна из двух конкурентных покупок по 3 билета проходит
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, capacityFailures)

	_, sold := factory.EventSnapshot(t, eventID)
	assert.Equal(t, 3, sold)

	sum, err := storage.SumQuantityByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum)
}

func TestListTicketsByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "buyer", "hashedpassword", models.RoleUser)
	factory.CreateUser(t, "other", "hashedpassword", models.RoleUser)
	eventID := factory.CreateEvent(t, "Concert", time.Now().AddDate(0, 1, 0), 20, 0)

	_, err := storage.PurchaseTickets(ctx, "buyer", eventID, 2)
	require.NoError(t, err)
	_, err = storage.PurchaseTickets(ctx, "other", eventID, 1)
	require.NoError(t, err)
	_, err = storage.PurchaseTickets(ctx, "buyer", eventID, 4)
	require.NoError(t, err)

	tickets, err := storage.ListTicketsByUsername(ctx, "buyer", 10, 0)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, 2, tickets[0].Quantity)
	assert.Equal(t, 4, tickets[1].Quantity)
}
