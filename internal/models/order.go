package models

import "time"

// Order представляет заказ на уборку снега для конкретного домика и даты.
//
// CabinNumber копируется из профиля жителя в момент создания и не меняется.
// На пару (cabin_number, date) может существовать не более одного заказа,
// что обеспечивается уникальным индексом в базе данных.
type Order struct {
	ID          int       `json:"id"`             // Идентификатор заказа
	UserUID     string    `json:"person_ordered"` // UID заказавшего пользователя
	Date        time.Time `json:"date"`           // Запрошенная дата уборки
	Note        string    `json:"note,omitempty"` // Необязательный комментарий
	CabinNumber int       `json:"cabin_number"`   // Номер домика на момент заказа
}

// DummyOrder используется для приёма данных заказа из JSON-запроса.
// Дата приходит строкой в формате RFC3339, чтобы ее можно было
// валидировать и парсить вручную.
type DummyOrder struct {
	Date string `json:"date" validate:"required"` // Дата уборки в формате RFC3339
	Note string `json:"note"`                     // Комментарий (опционально)
}
