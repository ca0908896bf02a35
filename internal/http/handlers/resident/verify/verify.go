// Package verify реализует HTTP-обработчик подтверждения почты по коду.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cabinconnect/internal/http/response"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	authservice "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
)

// Request — входные данные подтверждения: шестизначный цифровой код.
type Request struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Handler обрабатывает HTTP-запросы подтверждения почты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения.
type Service interface {
	Verify(ctx context.Context, email, code string) error
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
	const op = "handlers.resident.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := chi.URLParam(r, "email")

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

	if err := h.service.Verify(r.Context(), email, req.Code); err != nil {
		switch {
		case errors.Is(err, authservice.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
		case errors.Is(err, authservice.ErrAlreadyVerified):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("User is already verified"))
		case errors.Is(err, authservice.ErrInvalidCode):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid verification code"))
		default:
			log.Error("verification failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Verification failed"))
		}
		return
	}

	log.Info("email verified", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Verification successful",
	}))
}
