package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/validation"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

const (
	msgInternalError  = "внутренняя ошибка сервера"
	msgValidation     = "некорректные данные запроса"
	msgNotFound       = "ресурс не найден"
	msgForbidden      = "доступ запрещен"
	msgConflict       = "конфликт с текущим состоянием"
	msgInvalidState   = "операция недоступна в текущем статусе"
	msgNotBookable    = "эксперт не принимает бронирования"
	maxRequestBodyLen = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Messages пользовательские сообщения по видам ошибок. Пустые значения
// заменяются общими сообщениями.
type Messages struct {
	NotFound          string
	Forbidden         string
	Conflict          string
	InvalidState      string
	Validation        string
	InsufficientState string
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

var requestValidator = validation.New()

// DecodeJSON читает единственный JSON объект без неизвестных полей
// и проверяет его по тегам validate
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyLen))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return requestValidator.Struct(v)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondDecodeError ответ на ошибку DecodeJSON: для ошибок валидации с деталями по полям
func RespondDecodeError(w http.ResponseWriter, message string, err error) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: validation.Details(err)})
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// StatusFor HTTP код для вида ошибки
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondUsecaseError переводит ошибку usecase или сервиса в HTTP ответ.
// Внутренние ошибки логируются на уровне ERROR, остальные на WARN.
func RespondUsecaseError(w http.ResponseWriter, logger Logger, op string, err error, msgs Messages) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s - %v", op, err)
		RespondInternalError(w)
		return
	}

	logger.Warn("%s - %v", op, err)

	var message string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		message = pick(msgs.NotFound, msgNotFound)
	case errors.Is(err, domain.ErrForbidden):
		message = pick(msgs.Forbidden, msgForbidden)
	case errors.Is(err, domain.ErrConflict):
		message = pick(msgs.Conflict, msgConflict)
	case errors.Is(err, domain.ErrInvalidState):
		message = pick(msgs.InvalidState, msgInvalidState)
	case errors.Is(err, domain.ErrValidation):
		message = pick(msgs.Validation, msgValidation)
	case errors.Is(err, domain.ErrInsufficientState):
		message = pick(msgs.InsufficientState, msgNotBookable)
	}

	RespondError(w, status, message)
}

func pick(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

// PathID положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryInt необязательный целочисленный параметр запроса
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
