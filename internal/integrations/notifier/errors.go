package notifier

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации события
	// Вызывающий код логирует её и никогда не пробрасывает наружу
	ErrPublish = errors.New("notifier: failed to publish event")
)
