// Package create реализует HTTP-обработчик создания заказа на уборку снега.
//
// Handler принимает JSON с датой и комментарием, валидирует их, извлекает
// UID пользователя из контекста и делегирует создание заказа сервису.
// Номер домика клиент не передает: он берется из профиля жителя.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cabinconnect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cabinconnect/internal/http/response"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
	orderservice "github.com/magabrotheeeer/cabinconnect/internal/services/order"
)

// Handler управляет HTTP-запросами на создание заказов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания заказа.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyOrder) (int, error)
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
// @Summary Создать заказ на уборку снега
// @Description Создает заказ для домика текущего жителя. Возвращает ID созданной записи.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyOrder true "Дата и комментарий"
// @Success 201 {object} map[string]any "Заказ создан"
// @Failure 400 {object} response.ErrorResponse "Прошедшая дата или занятый слот"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании заказа"
// @Router /order/snow_shoveling/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrInvalidDate):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date format, expected RFC3339"))
		case errors.Is(err, orderservice.ErrNotAResident):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("User is not a cabin resident"))
		case errors.Is(err, orderservice.ErrPastDate):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Cannot create an order for a past date."))
		case errors.Is(err, orderservice.ErrDuplicateOrder):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("A snow shoveling order already exists for this date."))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("order created", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
