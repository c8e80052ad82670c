package rate_session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case оценки сессии
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	notifier     Notifier
	metrics      EventRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	notifier Notifier,
	metrics EventRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute сохраняет оценку и отзыв и пересчитывает рейтинг эксперта.
// Оценить можно только завершенную сессию и только один раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RateSession: session=%d, actor=%s:%d, rating=%d", req.SessionID, req.Actor.Role, req.Actor.ID, req.Rating)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RateSession: validation failed: %v", err)
		return nil, err
	}

	var (
		result      *domain.Session
		rating      float64
		reviewCount int
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("RateSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("RateSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		if err := domain.Authorize(req.Actor, session.Parties(), domain.CapRate); err != nil {
			uc.logger.Warn("RateSession: %v", err)
			return err
		}

		if session.Status != domain.StatusCompleted {
			uc.logger.Warn("RateSession: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrNotCompleted, session.Status)
		}
		if !session.CanBeRated() {
			uc.logger.Warn("RateSession: session id=%d already rated", session.ID)
			return ErrAlreadyRated
		}

		session.Rating = ptr.Ptr(req.Rating)
		session.ReviewedAt = ptr.Ptr(uc.timeProvider.Now().UTC())
		if review := strings.TrimSpace(req.Review); review != "" {
			session.Review = ptr.Ptr(review)
		}

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("RateSession: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		rating, reviewCount, err = uc.expertRepo.ApplyRating(txCtx, session.ExpertID, req.Rating)
		if err != nil {
			uc.logger.Error("RateSession: failed to apply rating to expert id=%d: %v", session.ExpertID, err)
			return fmt.Errorf("%w: failed to apply rating: %w", ErrInternal, err)
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RateSession: session id=%d rated %d, expert id=%d rating=%.2f over %d reviews",
		result.ID, req.Rating, result.ExpertID, rating, reviewCount)
	uc.metrics.IncBookingEvent(metrics.EventRated)

	event := notifier.NewEvent(notifier.EventReviewReceived, notifier.ChannelInApp, result.ExpertID, result.ID,
		map[string]interface{}{"rating": req.Rating, "hasReview": result.Review != nil})
	if !uc.notifier.Enqueue(event) {
		uc.logger.Warn("RateSession: review notification for session id=%d dropped", result.ID)
	}

	return &Response{Session: result, ExpertRating: rating, ReviewCount: reviewCount}, nil
}
