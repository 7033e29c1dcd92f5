// Package purchase реализует HTTP-обработчик покупки билетов на событие.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-ticketing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-ticketing/internal/http/response"
	"github.com/magabrotheeeer/event-ticketing/internal/lib/sl"
	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// Service описывает интерфейс бизнес-логики покупки билетов.
type Service interface {
	Purchase(ctx context.Context, username string, eventID, quantity int) (*models.Ticket, error)
}

// Handler управляет HTTP-запросами на покупку билетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ticket.purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("failed to extract username from context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || eventID < 1 {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event id"))
		return
	}

	var req models.DummyPurchase
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("invalid request", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	ticket, err := h.service.Purchase(r.Context(), username, eventID, req.Quantity)
	if err != nil {
		var capErr *models.InsufficientCapacityError
		switch {
		case errors.Is(err, models.ErrEventNotFound):
			log.Warn("event not found", slog.Int("event_id", eventID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.As(err, &capErr):
			log.Warn("not enough tickets",
				slog.Int("event_id", eventID),
				slog.Int("requested", req.Quantity),
				slog.Int("remaining", capErr.Remaining))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(
				fmt.Sprintf("not enough tickets: %d remaining", capErr.Remaining)))
		case errors.Is(err, models.ErrTransientConflict):
			log.Warn("purchase conflict not resolved", slog.Int("event_id", eventID))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("purchase temporarily unavailable, retry later"))
		case errors.Is(err, models.ErrInvalidInput):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid purchase request"))
		default:
			log.Error("failed to purchase tickets", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not purchase tickets"))
		}
		return
	}

	log.Info("tickets purchased",
		slog.String("username", username),
		slog.Int("event_id", eventID),
		slog.Int("quantity", ticket.Quantity))

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"ticket":  ticket,
		"message": "purchase successful",
	}))
}
