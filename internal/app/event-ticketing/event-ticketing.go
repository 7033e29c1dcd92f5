// Package eventticketing собирает и запускает основное приложение:
// хранилище, кеш, брокер уведомлений, сервисы и HTTP-сервер.
package eventticketing

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/event-ticketing/internal/cache"
	"github.com/magabrotheeeer/event-ticketing/internal/config"
	"github.com/magabrotheeeer/event-ticketing/internal/lib/jwt"
	"github.com/magabrotheeeer/event-ticketing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/event-ticketing/internal/lib/sl"
	"github.com/magabrotheeeer/event-ticketing/internal/migrations"
	"github.com/magabrotheeeer/event-ticketing/internal/notifier"
	authservice "github.com/magabrotheeeer/event-ticketing/internal/services/auth"
	eventservice "github.com/magabrotheeeer/event-ticketing/internal/services/event"
	ticketservice "github.com/magabrotheeeer/event-ticketing/internal/services/ticket"
	"github.com/magabrotheeeer/event-ticketing/internal/storage/repository"
)

// App инкапсулирует все зависимости приложения и HTTP-сервер.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *amqp.Connection
}

// New собирает приложение: подключается к базе, применяет миграции,
// инициализирует кеш и брокер, создает сервисы и маршруты.
//
// Недоступность RabbitMQ не считается фатальной: приложение стартует
// без публикации уведомлений о покупках.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	// Миграции требуют database/sql, пул pgx для них не подходит.
	migrationDB, err := sql.Open("pgx", cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(migrationDB, "./migrations"); err != nil {
		return nil, err
	}
	if err = migrationDB.Close(); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var rabbitConn *amqp.Connection
	var purchaseNotifier ticketservice.Notifier
	rabbitConn, err = rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
	if err != nil {
		logger.Warn("rabbitmq unavailable, purchase notifications disabled", sl.Err(err))
		rabbitConn = nil
	} else {
		ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetPurchaseQueues())
		if err != nil {
			logger.Warn("rabbitmq channel setup failed, purchase notifications disabled", sl.Err(err))
		} else {
			purchaseNotifier = notifier.New(ch)
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	eventService := eventservice.NewEventService(db, cacheRedis, logger)
	ticketService := ticketservice.NewTicketService(db, cacheRedis, purchaseNotifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, eventService, ticketService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста
// или ошибки сервера. При остановке завершает сервер gracefully
// и закрывает соединения с базой и брокером.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.Close()
		if a.rabbit != nil {
			if closeErr := a.rabbit.Close(); closeErr != nil {
				a.logger.Warn("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
