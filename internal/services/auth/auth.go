// Package services содержит бизнес-логику регистрации, подтверждения почты
// и выдачи токенов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cabinconnect/internal/lib/jwt"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/password"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/vercode"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
	"github.com/magabrotheeeer/cabinconnect/internal/storage/repository"
)

// Ошибки бизнес-логики, по которым обработчики выбирают HTTP-статус и сообщение.
var (
	// ErrEmailTaken — почта уже занята другим пользователем.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrCabinTaken — номер домика уже закреплен за другим жителем.
	ErrCabinTaken = errors.New("cabin number already taken")
	// ErrUserNotFound — пользователь с такой почтой не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyVerified — почта уже подтверждена, повторное подтверждение невозможно.
	ErrAlreadyVerified = errors.New("user is already verified")
	// ErrInvalidCode — код подтверждения не совпал.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified — учетные данные верны, но почта не подтверждена.
	ErrNotVerified = errors.New("user is not verified")
	// ErrInvalidRefreshToken — refresh-токен испорчен, истек или отозван.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// UserRepository описывает контракт для работы с пользователями и жителями в базе данных.
type UserRepository interface {
	// RegisterResident атомарно сохраняет пользователя с профилем жителя и возвращает UID.
	RegisterResident(ctx context.Context, user models.User, resident models.Resident) (string, error)
	// GetUserByUsername возвращает пользователя по имени или repository.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по почте или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetResidentByUserUID возвращает профиль жителя владельца.
	GetResidentByUserUID(ctx context.Context, userUID string) (*models.Resident, error)
	// UpdateVerificationCode перезаписывает код подтверждения.
	UpdateVerificationCode(ctx context.Context, userUID, code string) error
	// MarkVerified помечает жителя как подтвердившего почту.
	MarkVerified(ctx context.Context, userUID string) error
}

// Sender описывает отправку письма с кодом подтверждения.
type Sender interface {
	SendVerificationEmail(email, code string) error
}

// TokenStore описывает учет выданных refresh-токенов.
type TokenStore interface {
	// Save регистрирует выданный токен на срок его жизни.
	Save(ctx context.Context, jti, userUID string, ttl time.Duration) error
	// Exists сообщает, числится ли токен выданным.
	Exists(ctx context.Context, jti string) (bool, error)
}

// AuthService отвечает за регистрацию, подтверждение почты и работу с токенами.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	tokens   TokenStore
	sender   Sender
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, tokens TokenStore, sender Sender, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		tokens:   tokens,
		sender:   sender,
		log:      log,
	}
}

// Register создает нового пользователя вместе с профилем жителя,
// генерирует код подтверждения и отправляет письмо.
//
// Учетная запись создается даже при сбое отправки письма: ошибка доставки
// возвращается вызывающему, а код можно запросить повторно через Resend.
func (s *AuthService) Register(ctx context.Context, req models.DummyUser) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	code, err := vercode.Generate()
	if err != nil {
		return "", err
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
	}
	resident := models.Resident{
		CabinNumber:      req.CabinNumber,
		VerificationCode: code,
	}

	uid, err := s.users.RegisterResident(ctx, user, resident)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return "", ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameTaken):
			return "", ErrUsernameTaken
		case errors.Is(err, repository.ErrCabinTaken):
			return "", ErrCabinTaken
		}
		return "", err
	}
	s.log.Info("registered new resident", slog.String("uid", uid))

	if err := s.sender.SendVerificationEmail(req.Email, code); err != nil {
		return "", fmt.Errorf("failed to send verification email: %w", err)
	}
	return uid, nil
}

// Verify сверяет код подтверждения и помечает жителя подтвержденным.
// Повторное подтверждение возвращает ErrAlreadyVerified независимо от кода.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	resident, err := s.users.GetResidentByUserUID(ctx, user.UUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if resident.IsVerified {
		return ErrAlreadyVerified
	}
	if resident.VerificationCode != code {
		return ErrInvalidCode
	}
	if err := s.users.MarkVerified(ctx, user.UUID); err != nil {
		return err
	}
	s.log.Info("resident verified", slog.String("uid", user.UUID))
	return nil
}

// Resend генерирует новый код и отправляет письмо повторно.
// Подтвержденность жителя не проверяется: повторная отправка разрешена всегда.
func (s *AuthService) Resend(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	code, err := vercode.Generate()
	if err != nil {
		return err
	}
	if err := s.users.UpdateVerificationCode(ctx, user.UUID, code); err != nil {
		return err
	}
	return s.sender.SendVerificationEmail(email, code)
}

// Login проверяет пароль пользователя, затем подтвержденность почты,
// и выдает пару токенов. Проверка подтвержденности идет после проверки
// пароля, поэтому по ответу нельзя узнать, какие почты зарегистрированы.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	resident, err := s.users.GetResidentByUserUID(ctx, user.UUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotVerified
		}
		return nil, err
	}
	if !resident.IsVerified {
		return nil, ErrNotVerified
	}

	access, err := s.jwtMaker.GenerateAccessToken(user.Username, user.UUID)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := s.jwtMaker.GenerateRefreshToken(user.Username, user.UUID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, jti, user.UUID, s.jwtMaker.RefreshTTL()); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		UserUID:      user.UUID,
		AccessTTL:    s.jwtMaker.AccessTTL(),
		RefreshTTL:   s.jwtMaker.RefreshTTL(),
	}, nil
}

// Refresh проверяет refresh-токен и выдает новый access-токен.
// Подтвержденность почты повторно не проверяется.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}
	issued, err := s.tokens.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !issued {
		return nil, ErrInvalidRefreshToken
	}

	access, err := s.jwtMaker.GenerateAccessToken(claims.Username, claims.UserUID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken: access,
		UserUID:     claims.UserUID,
		AccessTTL:   s.jwtMaker.AccessTTL(),
		RefreshTTL:  s.jwtMaker.RefreshTTL(),
	}, nil
}
