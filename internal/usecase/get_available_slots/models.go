package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ExpertID        int64     // ID эксперта
	Date            time.Time // Дата в часовом поясе эксперта (без времени)
	DurationMinutes int       // Длительность сессии, 0 - минимальная допустимая
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ExpertID        int64
	Date            time.Time
	DurationMinutes int
	Timezone        string        // Часовой пояс, в котором заданы времена слотов
	Slots           []domain.Slot // Слоты по возрастанию начала
}
