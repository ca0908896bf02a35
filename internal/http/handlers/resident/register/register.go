// Package register реализует HTTP-обработчик регистрации жителя.
//
// Handler принимает JSON с данными учетной записи и номером домика,
// валидирует их и делегирует создание пользователя сервису. При успехе
// житель создается неподтвержденным, на почту уходит письмо с кодом.
package register

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

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req models.DummyUser) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация жителя
// @Description Создает пользователя с профилем жителя и отправляет код подтверждения на почту.
// @Tags Resident
// @Accept  json
// @Produce  json
// @Param request body models.DummyUser true "Данные нового жителя"
// @Success 201 {object} map[string]any "Житель создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятые почта/домик"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resident/register/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resident.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	uid, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrEmailTaken):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("user with this email already exists"))
		case errors.Is(err, authservice.ErrUsernameTaken):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("user with this username already exists"))
		case errors.Is(err, authservice.ErrCabinTaken):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cabin number is already registered"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	log.Info("resident registered", slog.String("uid", uid))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":       uid,
		"username": req.Username,
	}))
}
