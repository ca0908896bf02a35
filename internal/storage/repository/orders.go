package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cabinconnect/internal/models"
)

// CreateOrder вставляет новый заказ на уборку снега и возвращает его ID.
// Занятый слот (домик, дата) приводит к ErrDuplicateOrder.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (int, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO snow_shoveling_orders (user_uid, order_date, note, cabin_number)
			  VALUES ($1, $2, NULLIF($3, ''), $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		order.UserUID, order.Date, order.Note, order.CabinNumber).Scan(&newID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return 0, fmt.Errorf("%s: %w", op, mapped)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// DeleteExpiredOrders удаляет заказы пользователя с датой раньше before
// и возвращает количество удалённых строк. Чужие заказы не затрагиваются.
func (s *Storage) DeleteExpiredOrders(ctx context.Context, userUID string, before time.Time) (int, error) {
	const op = "storage.DeleteExpiredOrders"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM snow_shoveling_orders
			  WHERE user_uid = $1
			    AND order_date < $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListOrders возвращает заказы пользователя с датой не раньше from.
func (s *Storage) ListOrders(ctx context.Context, userUID string, from time.Time) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, order_date, note, cabin_number
			  FROM snow_shoveling_orders
			  WHERE user_uid = $1
			    AND order_date >= $2`
	rows, err := s.DB.QueryContext(ctx, query, userUID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		var item models.Order
		var note sql.NullString
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Date, &note, &item.CabinNumber); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if note.Valid {
			item.Note = note.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveOrder удаляет заказ по ID, если он принадлежит пользователю,
// и возвращает количество удалённых строк. Владение обеспечивается
// фильтром по user_uid, отдельной проверки прав нет.
func (s *Storage) RemoveOrder(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemoveOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM snow_shoveling_orders
			  WHERE id = $1
			    AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
