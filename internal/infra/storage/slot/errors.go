package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDuplicateSlot возвращается при попытке создать слот с уже
	// занятым ключом (property, date, start_time)
	ErrDuplicateSlot = errors.New("slot.repository: duplicate slot key")

	// ErrSlotNotOpen возвращается, когда условное обновление не нашло
	// открытый слот (слот уже забронирован, истёк или удалён)
	ErrSlotNotOpen = errors.New("slot.repository: slot is not open")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
