// Package services содержит бизнес-логику заказов на уборку снега.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cabinconnect/internal/models"
	"github.com/magabrotheeeer/cabinconnect/internal/storage/repository"
)

// Ошибки бизнес-логики заказов.
var (
	// ErrNotAResident — у пользователя нет профиля жителя.
	ErrNotAResident = errors.New("user is not a cabin resident")
	// ErrPastDate — запрошенный календарный день уже прошел.
	ErrPastDate = errors.New("cannot create an order for a past date")
	// ErrDuplicateOrder — на эту пару (домик, дата) заказ уже существует.
	ErrDuplicateOrder = errors.New("order already exists for this date")
	// ErrOrderNotFound — заказ не существует или принадлежит другому пользователю.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidDate — дата не распознана.
	ErrInvalidDate = errors.New("invalid date format")
)

// OrderRepository определяет методы для работы с заказами и профилем жителя в хранилище.
type OrderRepository interface {
	// CreateOrder вставляет заказ и возвращает его ID либо repository.ErrDuplicateOrder.
	CreateOrder(ctx context.Context, order models.Order) (int, error)
	// DeleteExpiredOrders удаляет заказы пользователя с датой раньше before.
	DeleteExpiredOrders(ctx context.Context, userUID string, before time.Time) (int, error)
	// ListOrders возвращает заказы пользователя с датой не раньше from.
	ListOrders(ctx context.Context, userUID string, from time.Time) ([]*models.Order, error)
	// RemoveOrder удаляет заказ пользователя и возвращает количество удалённых строк.
	RemoveOrder(ctx context.Context, id int, userUID string) (int, error)
	// GetResidentByUserUID возвращает профиль жителя владельца.
	GetResidentByUserUID(ctx context.Context, userUID string) (*models.Resident, error)
}

// OrderService реализует жизненный цикл заказа: создание, просмотр
// с попутной чисткой устаревших записей, удаление владельцем.
type OrderService struct {
	repo OrderRepository
	log  *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, log *slog.Logger) *OrderService {
	return &OrderService{
		repo: repo,
		log:  log,
	}
}

// startOfDay возвращает полночь календарного дня момента t в его локации.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Create создает заказ для жителя. Дата принимается в формате RFC3339.
//
// Проверка "в прошлом" сравнивает календарные дни, а уникальность слота —
// полную метку времени: два заказа на один день с разным временем суток
// не считаются дубликатами. Номер домика всегда берется из профиля
// жителя, значение из запроса не используется.
func (s *OrderService) Create(ctx context.Context, userUID string, req models.DummyOrder) (int, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	resident, err := s.repo.GetResidentByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotAResident
		}
		return 0, err
	}

	now := time.Now()
	if startOfDay(date.In(now.Location())).Before(startOfDay(now)) {
		return 0, ErrPastDate
	}

	order := models.Order{
		UserUID:     userUID,
		Date:        date,
		Note:        req.Note,
		CabinNumber: resident.CabinNumber,
	}
	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			return 0, ErrDuplicateOrder
		}
		return 0, err
	}
	s.log.Info("created snow shoveling order",
		slog.Int("id", id), slog.Int("cabin_number", resident.CabinNumber))
	return id, nil
}

// List удаляет прошедшие заказы пользователя и возвращает оставшиеся,
// начиная с сегодняшнего дня. Чистка затрагивает только заказы самого
// пользователя и идемпотентна: повторный вызов ничего не удаляет.
func (s *OrderService) List(ctx context.Context, userUID string) ([]*models.Order, error) {
	today := startOfDay(time.Now())

	purged, err := s.repo.DeleteExpiredOrders(ctx, userUID, today)
	if err != nil {
		return nil, err
	}
	if purged > 0 {
		s.log.Info("purged expired orders", slog.Int("count", purged))
	}

	return s.repo.ListOrders(ctx, userUID, today)
}

// Remove удаляет заказ, если он принадлежит пользователю.
func (s *OrderService) Remove(ctx context.Context, id int, userUID string) error {
	count, err := s.repo.RemoveOrder(ctx, id, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrOrderNotFound
	}
	s.log.Info("removed snow shoveling order", slog.Int("id", id))
	return nil
}
