// Package list реализует HTTP-обработчик списка заказов текущего жителя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cabinconnect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cabinconnect/internal/http/response"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/sl"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
)

// Handler обрабатывает HTTP-запросы списка заказов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка заказов.
// Перед выдачей списка сервис удаляет прошедшие заказы пользователя.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list orders"))
		return
	}

	log.Info("orders listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(res),
		"orders":     res,
	}))
}
