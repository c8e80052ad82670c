package create_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrExpertNotFound возвращается, когда эксперт не найден
	ErrExpertNotFound = fmt.Errorf("%w: create_session: expert not found", domain.ErrNotFound)

	// ErrExpertNotBookable возвращается, когда эксперт не одобрен или не принимает клиентов
	ErrExpertNotBookable = fmt.Errorf("%w: create_session: expert is not accepting bookings", domain.ErrInsufficientState)

	// ErrSlotNotAvailable возвращается, когда слот уже занят активной сессией
	ErrSlotNotAvailable = fmt.Errorf("%w: create_session: slot is not available", domain.ErrConflict)

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним предлагаемым слотом
	ErrInvalidTimeSlot = fmt.Errorf("%w: create_session: time is not an offered slot", domain.ErrValidation)

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = fmt.Errorf("%w: create_session: date is in the past", domain.ErrValidation)

	// ErrSelfBooking возвращается, когда клиент бронирует самого себя
	ErrSelfBooking = fmt.Errorf("%w: create_session: client cannot book themselves", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: create_session", domain.ErrInternal)
)
