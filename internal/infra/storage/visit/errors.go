package visit

import "errors"

var (
	// ErrVisitNotFound возвращается, когда заявка на визит не найдена
	ErrVisitNotFound = errors.New("visit.repository: visit request not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("visit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("visit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("visit.repository: failed to scan row")
)
