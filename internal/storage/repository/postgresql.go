// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, профилями жителей и заказами на уборку
// снега. Инварианты уникальности (почта, имя пользователя, номер домика,
// слот заказа) обеспечиваются ограничениями базы данных: нарушение
// ограничения при записи — штатный путь ошибки, а не повод для
// предварительных проверок существования.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, на которые опирается бизнес-логика.
var (
	// ErrNotFound возвращается, когда запрошенная строка отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken возвращается при нарушении уникальности почты.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken возвращается при нарушении уникальности имени пользователя.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrCabinTaken возвращается при нарушении уникальности номера домика.
	ErrCabinTaken = errors.New("cabin number already taken")
	// ErrDuplicateOrder возвращается, когда слот (домик, дата) уже занят.
	ErrDuplicateOrder = errors.New("order already exists for this cabin and date")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, жителями и заказами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// mapUniqueViolation переводит нарушение уникального ограничения в
// доменную ошибку хранилища по имени ограничения.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailTaken
	case "users_username_key":
		return ErrUsernameTaken
	case "residents_cabin_number_key":
		return ErrCabinTaken
	case "snow_shoveling_orders_cabin_number_order_date_key":
		return ErrDuplicateOrder
	}
	return nil
}
