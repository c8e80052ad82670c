package expert

import "errors"

var (
	// ErrExpertNotFound возвращается, когда эксперт не найден
	ErrExpertNotFound = errors.New("expert.repository: expert not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("expert.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("expert.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("expert.repository: failed to scan row")
)
