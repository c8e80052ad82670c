package expire_pending

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: expire_pending", domain.ErrInternal)

	// errNotStale сессию успели оплатить или отменить после выборки
	errNotStale = errors.New("expire_pending: session is no longer stale")
)
