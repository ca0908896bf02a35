// Package refresh реализует HTTP-обработчик обновления access-токена.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cabinconnect/internal/http/response"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
	authservice "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
)

// Request — структура входных данных для обновления токена.
type Request struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на обновление access-токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления токена.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
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
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidRefreshToken) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Invalid refresh token"))
			return
		}
		log.Error("refresh failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh token"))
		return
	}

	log.Info("access token refreshed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access":                   pair.AccessToken,
		"token_expiration":         pair.AccessTTL.String(),
		"token_refresh_expiration": pair.RefreshTTL.String(),
	}))
}
