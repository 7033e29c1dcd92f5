// Package eventticketing предоставляет маршруты для основного приложения.
package eventticketing

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/event-ticketing/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/event-ticketing/internal/http/handlers/auth/register"
	eventcreate "github.com/magabrotheeeer/event-ticketing/internal/http/handlers/event/create"
	eventlist "github.com/magabrotheeeer/event-ticketing/internal/http/handlers/event/list"
	eventread "github.com/magabrotheeeer/event-ticketing/internal/http/handlers/event/read"
	ticketlist "github.com/magabrotheeeer/event-ticketing/internal/http/handlers/ticket/list"
	ticketpurchase "github.com/magabrotheeeer/event-ticketing/internal/http/handlers/ticket/purchase"
	"github.com/magabrotheeeer/event-ticketing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-ticketing/internal/lib/policy"
	authservice "github.com/magabrotheeeer/event-ticketing/internal/services/auth"
	eventservice "github.com/magabrotheeeer/event-ticketing/internal/services/event"
	ticketservice "github.com/magabrotheeeer/event-ticketing/internal/services/ticket"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Создание событий доступно только администраторам, покупка билетов
// только обычным пользователям. Ролевые ограничения применяются
// middleware до вызова обработчиков.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, eventService *eventservice.EventService, ticketService *ticketservice.TicketService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.With(middlewarectx.RequireRole(policy.CanCreateEvent, logger)).
				Post("/events", eventcreate.New(logger, eventService).ServeHTTP)
			r.With(middlewarectx.RequireRole(policy.CanListEvents, logger)).
				Get("/events", eventlist.New(logger, eventService).ServeHTTP)
			r.With(middlewarectx.RequireRole(policy.CanListEvents, logger)).
				Get("/events/{id}", eventread.New(logger, eventService).ServeHTTP)
			r.With(middlewarectx.RequireRole(policy.CanPurchase, logger)).
				Post("/events/{id}/purchase", ticketpurchase.New(logger, ticketService).ServeHTTP)
			r.Get("/tickets/list", ticketlist.New(logger, ticketService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
