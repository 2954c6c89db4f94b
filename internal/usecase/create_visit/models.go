package create_visit

import (
	"time"
)

// Request модель запроса на бронирование визита
type Request struct {
	PropertyID  int64     // ID объекта недвижимости
	RequesterID int64     // ID покупателя, создающего заявку
	ScheduledAt time.Time // Дата и время визита (соответствует началу слота)
	Note        *string   // Заметка для агента (опционально)
}

// Response модель ответа с созданной заявкой
type Response struct {
	ID          int64     // ID созданной заявки
	PropertyID  int64     // ID объекта
	RequesterID int64     // ID покупателя
	RecipientID int64     // ID агента (или создателя объекта)
	ScheduledAt time.Time // Время визита
	Note        *string   // Заметка
	Status      string    // Статус заявки (pending)
	CreatedAt   time.Time // Время создания
}
