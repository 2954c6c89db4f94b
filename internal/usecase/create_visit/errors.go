package create_visit

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("create_visit: property not found")

	// ErrScheduleInPast возвращается, когда время визита не в будущем
	ErrScheduleInPast = errors.New("create_visit: scheduled time is not in the future")

	// ErrDateOutOfHorizon возвращается, когда дата визита вне окна бронирования
	ErrDateOutOfHorizon = errors.New("create_visit: date is outside the booking horizon")

	// ErrDateUnavailable возвращается, когда дата закрыта для объекта
	ErrDateUnavailable = errors.New("create_visit: date is blacked out for this property")

	// ErrSlotNotAvailable возвращается, когда открытого слота на это
	// время нет (не создан, уже забронирован или истёк)
	ErrSlotNotAvailable = errors.New("create_visit: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_visit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_visit: internal error")
)
