// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки пары токенов (access + refresh).
// MakerImpl — конкретная реализация с использованием секретного ключа и двух сроков жизни.
package jwt

import (
	"time"
)

// Типы токенов, записываемые в claim token_type.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateAccessToken создает короткоживущий access-токен.
	GenerateAccessToken(username, userUID string) (string, error)
	// GenerateRefreshToken создает refresh-токен и возвращает его вместе с jti.
	GenerateRefreshToken(username, userUID string) (token string, jti string, err error)
	// ParseToken возвращает *CustomClaims, если токен подписан и не истек.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// AccessTTL возвращает срок жизни access-токена.
	AccessTTL() time.Duration
	// RefreshTTL возвращает срок жизни refresh-токена.
	RefreshTTL() time.Duration
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни каждого из токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	accessTTL  time.Duration // Время жизни access-токена.
	refreshTTL time.Duration // Время жизни refresh-токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и двух TTL.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL возвращает настроенное время жизни access-токена.
func (j *MakerImpl) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL возвращает настроенное время жизни refresh-токена.
func (j *MakerImpl) RefreshTTL() time.Duration { return j.refreshTTL }
