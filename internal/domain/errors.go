package domain

import "errors"

// Виды ошибок. Ошибки пакетов оборачивают один из них,
// HTTP слой выбирает код ответа по виду.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientState = errors.New("insufficient state")
	ErrInternal          = errors.New("internal error")
)
