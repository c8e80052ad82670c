package create_session

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модель запроса на создание сессии
type Request struct {
	ClientID        int64            // ID клиента
	ExpertID        int64            // ID эксперта
	Date            time.Time        // Дата сессии в часовом поясе эксперта (без времени)
	StartTime       types.TimeString // Время начала, например "10:00"
	DurationMinutes int              // 30, 60, 90 или 120
	UseCredits      bool             // Списать кредиты клиента в счет оплаты
}

// Response созданная сессия и сумма, которую осталось оплатить
type Response struct {
	Session   *domain.Session
	AmountDue float64
}
