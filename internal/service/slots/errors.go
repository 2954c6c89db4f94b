package slots

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("property not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotBooked возвращается при попытке удалить забронированный слот
	ErrSlotBooked = errors.New("slot is booked")

	// ErrSlotExpired возвращается при попытке удалить истёкший слот
	ErrSlotExpired = errors.New("slot is expired")

	// ErrDateOutOfHorizon возвращается, когда дата вне окна бронирования
	ErrDateOutOfHorizon = errors.New("date is outside the booking horizon")

	// ErrDuplicateBlackout возвращается при повторном закрытии даты
	ErrDuplicateBlackout = errors.New("date is already blacked out")

	// ErrBlackoutNotFound возвращается, когда закрытие даты не найдено
	ErrBlackoutNotFound = errors.New("blackout date not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots service: internal error")
)
