package complete_elapsed

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = fmt.Errorf("%w: complete_elapsed", domain.ErrInternal)
