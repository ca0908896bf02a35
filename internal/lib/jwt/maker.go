package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"`   // Имя пользователя
	UserUID              string `json:"user_uid"`   // Уникальный идентификатор пользователя
	TokenType            string `json:"token_type"` // Тип токена: access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateAccessToken создает access-токен с заданными username и userUID,
// подписывая его секретным ключом. Время жизни определяется полем accessTTL.
func (j *MakerImpl) GenerateAccessToken(username, userUID string) (string, error) {
	return j.generate(username, userUID, TokenTypeAccess, "", j.accessTTL)
}

// GenerateRefreshToken создает refresh-токен и возвращает его вместе с jti —
// идентификатором, по которому токен числится в хранилище выданных токенов.
func (j *MakerImpl) GenerateRefreshToken(username, userUID string) (string, string, error) {
	jti := uuid.New().String()
	token, err := j.generate(username, userUID, TokenTypeRefresh, jti, j.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func (j *MakerImpl) generate(username, userUID, tokenType, jti string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		Username:  username,
		UserUID:   userUID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
