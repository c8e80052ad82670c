package account

import "errors"

var (
	// ErrInsufficientCredits возвращается, когда на балансе меньше списываемой суммы
	ErrInsufficientCredits = errors.New("account.repository: insufficient credits")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("account.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("account.repository: failed to execute query")
)
