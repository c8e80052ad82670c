package complete_elapsed

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
)

// UseCase автоматическое завершение прошедших сессий
type UseCase struct {
	sessionRepo  SessionRepository
	completer    Completer
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, completer Completer, batchSize int, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		completer:    completer,
		batchSize:    batchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute завершает от имени системы подтвержденные сессии, чье время окончания прошло.
// Каждая сессия завершается в своей транзакции: ошибка одной не останавливает остальные.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now().UTC()

	sessions, err := uc.sessionRepo.ListDueForCompletion(ctx, now, uc.batchSize)
	if err != nil {
		uc.logger.Error("CompleteElapsed: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	resp := &Response{Found: len(sessions)}

	for _, session := range sessions {
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}

		_, err := uc.completer.Execute(ctx, &complete_session.Request{
			SessionID: session.ID,
			Actor:     domain.SystemActor,
		})
		switch {
		case err == nil:
			resp.Completed++
		case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrNotFound):
			// сессию успели отменить или завершить вручную
			uc.logger.Warn("CompleteElapsed: skip session id=%d: %v", session.ID, err)
		default:
			resp.Failed++
			uc.logger.Error("CompleteElapsed: failed to complete session id=%d: %v", session.ID, err)
		}
	}

	if resp.Found > 0 {
		uc.logger.Info("CompleteElapsed: completed %d of %d sessions, failed=%d", resp.Completed, resp.Found, resp.Failed)
	}

	return resp, nil
}
