// Package models содержит доменные структуры пользователя и его профиля жителя.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	CreatedAt    time.Time // Дата создания учетной записи
}

// Resident связывает пользователя с номером домика и состоянием подтверждения почты.
//
// IsVerified переходит из false в true ровно один раз, обратного пути нет.
// VerificationCode перегенерируется при каждой повторной отправке письма.
type Resident struct {
	ID               int    // Идентификатор профиля
	UserUID          string // UID владельца (один к одному)
	CabinNumber      int    // Номер домика (уникален во всей системе)
	IsVerified       bool   // Подтверждена ли почта
	VerificationCode string // Текущий шестизначный код, пустая строка если не задан
}

// DummyUser используется для приёма данных регистрации из JSON-запроса.
type DummyUser struct {
	Username    string `json:"username" validate:"required,min=3,max=50"` // Имя пользователя
	Email       string `json:"email" validate:"required,email"`           // Электронная почта
	Password    string `json:"password" validate:"required,min=6"`        // Пароль (минимум 6 символов)
	CabinNumber int    `json:"cabin_number" validate:"required,gt=0"`     // Номер домика (>0)
}

// TokenPair содержит выданные токены и метаданные о сроках их жизни.
type TokenPair struct {
	AccessToken  string        // Access-токен
	RefreshToken string        // Refresh-токен
	UserUID      string        // UID пользователя, которому выданы токены
	AccessTTL    time.Duration // Срок жизни access-токена
	RefreshTTL   time.Duration // Срок жизни refresh-токена
}
