// Package token реализует HTTP-обработчик выдачи пары токенов.
//
// Проверка подтвержденности почты выполняется после проверки пароля,
// поэтому ответ не раскрывает, какие учетные записи существуют.
package token

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

// Request — структура входных данных для получения токенов.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы на выдачу токенов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.TokenPair, error)
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
// @Summary Получение пары токенов
// @Description Аутентифицирует жителя по имени и паролю. Возвращает access- и refresh-токен со сроками жизни.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные жителя"
// @Success 200 {object} map[string]any "Пара токенов выдана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные или неподтвержденная почта"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /token/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

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

	pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidCredentials):
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Invalid credentials"))
		case errors.Is(err, authservice.ErrNotVerified):
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("User is not verified"))
		default:
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to obtain token"))
		}
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":                       pair.UserUID,
		"access":                   pair.AccessToken,
		"refresh":                  pair.RefreshToken,
		"token_expiration":         pair.AccessTTL.String(),
		"token_refresh_expiration": pair.RefreshTTL.String(),
	}))
}
