package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/magabrotheeeer/cabinconnect/internal/lib/jwt"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/password"
	"github.com/magabrotheeeer/cabinconnect/internal/models"
	services "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
	"github.com/magabrotheeeer/cabinconnect/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterResident(ctx context.Context, user models.User, resident models.Resident) (string, error) {
	args := m.Called(ctx, user, resident)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetResidentByUserUID(ctx context.Context, userUID string) (*models.Resident, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *UserRepoMock) UpdateVerificationCode(ctx context.Context, userUID, code string) error {
	args := m.Called(ctx, userUID, code)
	return args.Error(0)
}

func (m *UserRepoMock) MarkVerified(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateAccessToken(username, userUID string) (string, error) {
	args := m.Called(username, userUID)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) GenerateRefreshToken(username, userUID string) (string, string, error) {
	args := m.Called(username, userUID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func (m *JwtMakerMock) AccessTTL() time.Duration  { return 15 * time.Minute }
func (m *JwtMakerMock) RefreshTTL() time.Duration { return 24 * time.Hour }

// Мок для Sender
type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) SendVerificationEmail(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

// Мок для TokenStore
type TokenStoreMock struct {
	mock.Mock
}

func (m *TokenStoreMock) Save(ctx context.Context, jti, userUID string, ttl time.Duration) error {
	args := m.Called(ctx, jti, userUID, ttl)
	return args.Error(0)
}

func (m *TokenStoreMock) Exists(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newService(repo *UserRepoMock, jwtMock *JwtMakerMock, tokens *TokenStoreMock, sender *SenderMock) *services.AuthService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewAuthService(repo, jwtMock, tokens, sender, logger)
}

func TestAuthService_Register(t *testing.T) {
	req := models.DummyUser{
		Username:    "testuser",
		Email:       "test@example.com",
		Password:    "password123",
		CabinNumber: 42,
	}

	tests := []struct {
		name        string
		setupMocks  func(r *UserRepoMock, s *SenderMock)
		wantUserUID string
		wantErr     error
		errMsg      string
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock, s *SenderMock) {
				r.On("RegisterResident", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Username == "testuser" &&
						user.PasswordHash != ""
				}), mock.MatchedBy(func(res models.Resident) bool {
					return res.CabinNumber == 42 && len(res.VerificationCode) == 6
				})).Return("some-uuid-string", nil).Once()
				s.On("SendVerificationEmail", "test@example.com", mock.AnythingOfType("string")).
					Return(nil).Once()
			},
			wantUserUID: "some-uuid-string",
		},
		{
			name: "email already taken",
			setupMocks: func(r *UserRepoMock, _ *SenderMock) {
				r.On("RegisterResident", mock.Anything, mock.Anything, mock.Anything).
					Return("", repository.ErrEmailTaken).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name: "username already taken",
			setupMocks: func(r *UserRepoMock, _ *SenderMock) {
				r.On("RegisterResident", mock.Anything, mock.Anything, mock.Anything).
					Return("", repository.ErrUsernameTaken).Once()
			},
			wantErr: services.ErrUsernameTaken,
		},
		{
			name: "cabin already taken",
			setupMocks: func(r *UserRepoMock, _ *SenderMock) {
				r.On("RegisterResident", mock.Anything, mock.Anything, mock.Anything).
					Return("", repository.ErrCabinTaken).Once()
			},
			wantErr: services.ErrCabinTaken,
		},
		{
			name: "email send failure surfaces after account creation",
			setupMocks: func(r *UserRepoMock, s *SenderMock) {
				r.On("RegisterResident", mock.Anything, mock.Anything, mock.Anything).
					Return("some-uuid-string", nil).Once()
				s.On("SendVerificationEmail", "test@example.com", mock.AnythingOfType("string")).
					Return(errors.New("smtp down")).Once()
			},
			errMsg: "failed to send verification email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			sender := new(SenderMock)
			svc := newService(repo, new(JwtMakerMock), new(TokenStoreMock), sender)

			tt.setupMocks(repo, sender)

			got, err := svc.Register(context.Background(), req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
			sender.AssertExpectations(t)
		})
	}
}

func TestAuthService_Verify(t *testing.T) {
	testUser := &models.User{UUID: "uid-1", Email: "test@example.com"}

	tests := []struct {
		name       string
		email      string
		code       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:  "successful verification",
			email: "test@example.com",
			code:  "123456",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").
					Return(&models.Resident{UserUID: "uid-1", VerificationCode: "123456"}, nil).Once()
				r.On("MarkVerified", mock.Anything, "uid-1").Return(nil).Once()
			},
		},
		{
			name:  "user not found",
			email: "missing@example.com",
			code:  "123456",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "missing@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:  "already verified wins over wrong code",
			email: "test@example.com",
			code:  "000000",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").
					Return(&models.Resident{UserUID: "uid-1", IsVerified: true, VerificationCode: "123456"}, nil).Once()
			},
			wantErr: services.ErrAlreadyVerified,
		},
		{
			name:  "wrong code",
			email: "test@example.com",
			code:  "654321",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").
					Return(&models.Resident{UserUID: "uid-1", VerificationCode: "123456"}, nil).Once()
			},
			wantErr: services.ErrInvalidCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := newService(repo, new(JwtMakerMock), new(TokenStoreMock), new(SenderMock))

			tt.setupMocks(repo)

			err := svc.Verify(context.Background(), tt.email, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Resend(t *testing.T) {
	testUser := &models.User{UUID: "uid-1", Email: "test@example.com"}

	tests := []struct {
		name       string
		email      string
		setupMocks func(r *UserRepoMock, s *SenderMock)
		wantErr    error
	}{
		{
			name:  "resend generates new code and sends email",
			email: "test@example.com",
			setupMocks: func(r *UserRepoMock, s *SenderMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				r.On("UpdateVerificationCode", mock.Anything, "uid-1", mock.MatchedBy(func(code string) bool {
					return len(code) == 6
				})).Return(nil).Once()
				s.On("SendVerificationEmail", "test@example.com", mock.AnythingOfType("string")).
					Return(nil).Once()
			},
		},
		{
			name:  "user not found",
			email: "missing@example.com",
			setupMocks: func(r *UserRepoMock, _ *SenderMock) {
				r.On("GetUserByEmail", mock.Anything, "missing@example.com").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			sender := new(SenderMock)
			svc := newService(repo, new(JwtMakerMock), new(TokenStoreMock), sender)

			tt.setupMocks(repo, sender)

			err := svc.Resend(context.Background(), tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			sender.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"

	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUser := &models.User{
		UUID:         "uid-1",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: hashedPassword,
	}
	verifiedResident := &models.Resident{UserUID: "uid-1", CabinNumber: 42, IsVerified: true}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock, ts *TokenStoreMock)
		wantAccess string
		wantErr    error
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock, ts *TokenStoreMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").Return(verifiedResident, nil).Once()
				j.On("GenerateAccessToken", "testuser", "uid-1").Return("access-token-123", nil).Once()
				j.On("GenerateRefreshToken", "testuser", "uid-1").Return("refresh-token-123", "jti-1", nil).Once()
				ts.On("Save", mock.Anything, "jti-1", "uid-1", 24*time.Hour).Return(nil).Once()
			},
			wantAccess: "access-token-123",
		},
		{
			name:     "user not found",
			username: "nonexistent",
			password: "password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock, _ *TokenStoreMock) {
				r.On("GetUserByUsername", mock.Anything, "nonexistent").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock, _ *TokenStoreMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unverified resident",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock, _ *TokenStoreMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").
					Return(&models.Resident{UserUID: "uid-1", IsVerified: false}, nil).Once()
			},
			wantErr: services.ErrNotVerified,
		},
		{
			name:     "token generation error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock, _ *TokenStoreMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(testUser, nil).Once()
				r.On("GetResidentByUserUID", mock.Anything, "uid-1").Return(verifiedResident, nil).Once()
				j.On("GenerateAccessToken", "testuser", "uid-1").
					Return("", errors.New("token error")).Once()
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			tokens := new(TokenStoreMock)
			svc := newService(repo, jwtMock, tokens, new(SenderMock))

			tt.setupMocks(repo, jwtMock, tokens)

			pair, err := svc.Login(context.Background(), tt.username, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
			case tt.wantAccess != "":
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAccess, pair.AccessToken)
				assert.Equal(t, "refresh-token-123", pair.RefreshToken)
				assert.Equal(t, "uid-1", pair.UserUID)
				assert.Equal(t, 15*time.Minute, pair.AccessTTL)
				assert.Equal(t, 24*time.Hour, pair.RefreshTTL)
			default:
				assert.Error(t, err)
				assert.Nil(t, pair)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	validClaims := &customjwt.CustomClaims{
		Username:  "testuser",
		UserUID:   "uid-1",
		TokenType: customjwt.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	accessClaims := &customjwt.CustomClaims{
		Username:  "testuser",
		UserUID:   "uid-1",
		TokenType: customjwt.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	tests := []struct {
		name       string
		token      string
		setupMocks func(j *JwtMakerMock, ts *TokenStoreMock)
		wantAccess string
		wantErr    error
	}{
		{
			name:  "successful refresh",
			token: "valid-refresh",
			setupMocks: func(j *JwtMakerMock, ts *TokenStoreMock) {
				j.On("ParseToken", "valid-refresh").Return(validClaims, nil).Once()
				ts.On("Exists", mock.Anything, "jti-1").Return(true, nil).Once()
				j.On("GenerateAccessToken", "testuser", "uid-1").Return("new-access", nil).Once()
			},
			wantAccess: "new-access",
		},
		{
			name:  "malformed token",
			token: "garbage",
			setupMocks: func(j *JwtMakerMock, _ *TokenStoreMock) {
				j.On("ParseToken", "garbage").Return(nil, errors.New("token is malformed")).Once()
			},
			wantErr: services.ErrInvalidRefreshToken,
		},
		{
			name:  "access token rejected",
			token: "access-as-refresh",
			setupMocks: func(j *JwtMakerMock, _ *TokenStoreMock) {
				j.On("ParseToken", "access-as-refresh").Return(accessClaims, nil).Once()
			},
			wantErr: services.ErrInvalidRefreshToken,
		},
		{
			name:  "revoked token",
			token: "revoked-refresh",
			setupMocks: func(j *JwtMakerMock, ts *TokenStoreMock) {
				j.On("ParseToken", "revoked-refresh").Return(validClaims, nil).Once()
				ts.On("Exists", mock.Anything, "jti-1").Return(false, nil).Once()
			},
			wantErr: services.ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtMock := new(JwtMakerMock)
			tokens := new(TokenStoreMock)
			svc := newService(new(UserRepoMock), jwtMock, tokens, new(SenderMock))

			tt.setupMocks(jwtMock, tokens)

			pair, err := svc.Refresh(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAccess, pair.AccessToken)
				assert.Empty(t, pair.RefreshToken)
			}

			jwtMock.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
