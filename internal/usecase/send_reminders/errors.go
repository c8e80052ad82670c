package send_reminders

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = fmt.Errorf("%w: send_reminders", domain.ErrInternal)
