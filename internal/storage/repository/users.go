package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cabinconnect/internal/models"
)

// RegisterResident атомарно сохраняет нового пользователя вместе с профилем
// жителя и возвращает UID пользователя. Либо создаются обе строки, либо ни одной.
func (s *Storage) RegisterResident(ctx context.Context, user models.User, resident models.Resident) (string, error) {
	const op = "storage.RegisterResident"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (email, username, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := tx.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash).Scan(&newUID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return "", fmt.Errorf("%s: %w", op, mapped)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO residents (user_uid, cabin_number, is_verified, verification_code)
			 VALUES ($1, $2, false, $3);`
	if _, err := tx.ExecContext(ctx, query,
		newUID, resident.CabinNumber, resident.VerificationCode); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return "", fmt.Errorf("%s: %w", op, mapped)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetResidentByUserUID возвращает профиль жителя по UID владельца.
func (s *Storage) GetResidentByUserUID(ctx context.Context, userUID string) (*models.Resident, error) {
	const op = "storage.GetResidentByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, cabin_number, is_verified, verification_code
			  FROM residents
			  WHERE user_uid = $1`
	res := &models.Resident{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var code sql.NullString
	if err := row.Scan(&res.ID, &res.UserUID, &res.CabinNumber, &res.IsVerified, &code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if code.Valid {
		res.VerificationCode = code.String
	}
	return res, nil
}

// UpdateVerificationCode перезаписывает код подтверждения жителя.
func (s *Storage) UpdateVerificationCode(ctx context.Context, userUID, code string) error {
	const op = "storage.UpdateVerificationCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE residents
			  SET verification_code = $1
			  WHERE user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, code, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MarkVerified помечает жителя как подтвердившего почту.
func (s *Storage) MarkVerified(ctx context.Context, userUID string) error {
	const op = "storage.MarkVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE residents
			  SET is_verified = true
			  WHERE user_uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
