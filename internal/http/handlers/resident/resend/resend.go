// Package resend реализует HTTP-обработчик повторной отправки кода подтверждения.
package resend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cabinconnect/internal/http/response"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	authservice "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы повторной отправки кода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики повторной отправки.
type Service interface {
	Resend(ctx context.Context, email string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resident.resend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := chi.URLParam(r, "email")

	if err := h.service.Resend(r.Context(), email); err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
			return
		}
		log.Error("failed to resend verification code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resend verification code"))
		return
	}

	log.Info("verification code resent", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Verification code resent successfully",
	}))
}
