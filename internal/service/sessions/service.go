package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

// Service сервис чтения сессий
type Service struct {
	sessionRepo SessionRepository
	ledgerRepo  LedgerRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	ledgerRepo LedgerRepository,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

// GetByID получает сессию по ID.
// Видят сессию ее клиент, ее эксперт и администраторы.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.SessionResponse, error) {
	s.logger.Info("GetByID: fetching session id=%d for %s:%d", id, actor.Role, actor.ID)

	session, err := s.getAuthorized(ctx, "GetByID", id, actor)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSession(session), nil
}

// List история сессий пользователя в роли клиента или эксперта.
// Пользователь видит только свою историю, администратор любую.
func (s *Service) List(ctx context.Context, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	s.logger.Info("List: fetching sessions of user=%d as %s for %s:%d", req.UserID, req.As, req.Actor.Role, req.Actor.ID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Actor.Role != domain.RoleAdmin && req.Actor.ID != req.UserID {
		s.logger.Warn("List: %s:%d cannot read sessions of user=%d", req.Actor.Role, req.Actor.ID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d sessions for user=%d", len(sessions), req.UserID)
	return models.FromDomainSessionList(sessions), nil
}

// Ledger журнал расчетов по сессии, с теми же правами, что и чтение сессии
func (s *Service) Ledger(ctx context.Context, sessionID int64, actor domain.Actor) (*models.LedgerResponse, error) {
	s.logger.Info("Ledger: fetching ledger of session id=%d for %s:%d", sessionID, actor.Role, actor.ID)

	if _, err := s.getAuthorized(ctx, "Ledger", sessionID, actor); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("Ledger: repository error for session id=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: Ledger - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLedger(sessionID, entries), nil
}

func (s *Service) getAuthorized(ctx context.Context, op string, id int64, actor domain.Actor) (*domain.Session, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("%s: session id=%d not found", op, id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("%s: repository error for session id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if err := domain.Authorize(actor, session.Parties(), domain.CapView); err != nil {
		s.logger.Warn("%s: %v", op, err)
		return nil, err
	}

	return session, nil
}
