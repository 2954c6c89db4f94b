package visits

import "errors"

var (
	// ErrVisitNotFound возвращается, когда заявка не найдена
	ErrVisitNotFound = errors.New("visit request not found")

	// ErrAccessDenied возвращается, когда вызывающий не является
	// стороной, которой разрешён этот переход
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidStatus возвращается при недопустимом значении статуса
	ErrInvalidStatus = errors.New("invalid visit status")

	// ErrInvalidTransition возвращается, когда переход невозможен
	// из текущего статуса заявки
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTooEarly возвращается при попытке отметить посещение
	// до наступления запланированного времени визита
	ErrTooEarly = errors.New("too early to record attendance")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("visits service: internal error")
)
