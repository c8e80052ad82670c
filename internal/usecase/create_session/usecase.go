package create_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
)

// UseCase use case для создания сессии
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	accountRepo  AccountRepository
	ledgerRepo   LedgerRepository
	commission   *scheduling.CommissionEngine
	currency     string
	notifier     Notifier
	cache        AvailabilityCache
	metrics      EventRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	commission *scheduling.CommissionEngine,
	defaultCurrency string,
	notifier Notifier,
	cache AvailabilityCache,
	metrics EventRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		commission:   commission,
		currency:     defaultCurrency,
		notifier:     notifier,
		cache:        cache,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания сессии.
// Все проверки и изменения выполняются в одной сериализуемой транзакции,
// уведомления отправляются только после фиксации.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSession: client=%d, expert=%d, date=%s, time=%s, duration=%d, useCredits=%t",
		req.ClientID, req.ExpertID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.UseCredits)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSession: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result    *domain.Session
		amountDue float64
	)

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем эксперта с блокировкой строки: бронирования к одному эксперту идут по очереди
		expert, err := uc.expertRepo.GetByID(txCtx, req.ExpertID)
		if err != nil {
			if errors.Is(err, expertRepo.ErrExpertNotFound) {
				uc.logger.Warn("CreateSession: expert id=%d not found", req.ExpertID)
				return ErrExpertNotFound
			}
			uc.logger.Error("CreateSession: failed to get expert id=%d: %v", req.ExpertID, err)
			return fmt.Errorf("%w: failed to get expert: %w", ErrInternal, err)
		}

		// 3.2. Эксперт должен быть одобрен и принимать клиентов
		if !expert.IsBookable() {
			uc.logger.Warn("CreateSession: expert id=%d is not bookable (approved=%t, accepting=%t)",
				expert.ID, expert.IsApproved, expert.IsAcceptingClients)
			return ErrExpertNotBookable
		}

		// 3.3. Дата не в прошлом по часовому поясу эксперта
		if err := validateDate(expert, req.Date, now); err != nil {
			uc.logger.Warn("CreateSession: date validation failed: %v", err)
			return err
		}

		date := scheduling.CalendarDate(req.Date)

		// 3.4. Активные сессии эксперта на эту дату (FOR UPDATE)
		sessions, err := uc.sessionRepo.GetActiveByExpertAndDates(txCtx, expert.ID, date, date)
		if err != nil {
			uc.logger.Error("CreateSession: failed to get sessions: %v", err)
			return fmt.Errorf("%w: failed to get sessions: %w", ErrInternal, err)
		}

		// 3.5. Слот не должен пересекаться с существующими сессиями
		if conflict := findConflict(req.StartTime, req.DurationMinutes, sessions); conflict != nil {
			uc.logger.Warn("CreateSession: slot %s overlaps session id=%d (%s-%s)",
				req.StartTime, conflict.ID, conflict.ScheduledTime, conflict.EndTime)
			return ErrSlotNotAvailable
		}

		// 3.6. Время должно быть одним из предлагаемых экспертом слотов
		offered, err := scheduling.IsOfferedStart(expert, date, req.StartTime, req.DurationMinutes, now)
		if err != nil {
			uc.logger.Warn("CreateSession: failed to compute slots: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !offered {
			uc.logger.Warn("CreateSession: %s %s is not an offered slot for expert id=%d",
				date.Format(domain.DateFormat), req.StartTime, expert.ID)
			return ErrInvalidTimeSlot
		}

		// 3.7. Цена и комиссии
		price := scheduling.SessionPrice(expert.HourlyRate, req.DurationMinutes)
		split := uc.commission.Split(price)

		// 3.8. Кредиты клиента
		var creditsUsed float64
		if req.UseCredits {
			account, err := uc.accountRepo.GetByUserID(txCtx, req.ClientID)
			if err != nil {
				uc.logger.Error("CreateSession: failed to get account of user id=%d: %v", req.ClientID, err)
				return fmt.Errorf("%w: failed to get account: %w", ErrInternal, err)
			}

			creditsUsed = creditsToUse(account.CreditBalance, price)
			if creditsUsed > 0 {
				if err := uc.accountRepo.Debit(txCtx, req.ClientID, creditsUsed); err != nil {
					uc.logger.Error("CreateSession: failed to debit %.2f credits of user id=%d: %v", creditsUsed, req.ClientID, err)
					return fmt.Errorf("%w: failed to debit credits: %w", ErrInternal, err)
				}
			}
		}
		amountDue = scheduling.RoundMoney(price - creditsUsed)

		// 3.9. Создаем сессию
		startsAt, endsAt, err := scheduling.SessionBounds(expert, date, req.StartTime, req.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		endTime, err := req.StartTime.AddMinutes(req.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		paymentStatus := domain.PaymentPending
		if amountDue == 0 {
			paymentStatus = domain.PaymentPaid
		}

		currency := expert.Currency
		if currency == "" {
			currency = uc.currency
		}

		session := &domain.Session{
			ClientID:        req.ClientID,
			ExpertID:        expert.ID,
			ScheduledDate:   date,
			ScheduledTime:   req.StartTime,
			EndTime:         endTime,
			DurationMinutes: req.DurationMinutes,
			StartsAt:        startsAt,
			EndsAt:          endsAt,
			Price:           price,
			Currency:        currency,
			Status:          domain.StatusPending,
			PaymentStatus:   paymentStatus,
			Metadata: domain.SessionMetadata{
				ExpertCommission:   split.ExpertShare,
				PlatformCommission: split.PlatformShare,
				UserCreditsUsed:    creditsUsed,
			},
		}

		created, err := uc.sessionRepo.Create(txCtx, session)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateSession: slot %s %s of expert id=%d taken concurrently",
					date.Format(domain.DateFormat), req.StartTime, expert.ID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateSession: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %w", ErrInternal, err)
		}

		// 3.10. Запись в журнал
		if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(created, domain.LedgerCharge, price)); err != nil {
			uc.logger.Error("CreateSession: failed to write ledger entry: %v", err)
			return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateSession: serialization conflict for expert id=%d: %v", req.ExpertID, err)
			err = ErrSlotNotAvailable
		}
		if errors.Is(err, domain.ErrConflict) {
			uc.metrics.IncBookingEvent(metrics.EventConflict)
		}
		return nil, err
	}

	uc.logger.Info("CreateSession: successfully created session id=%d, price=%.2f, amountDue=%.2f",
		result.ID, result.Price, amountDue)
	uc.metrics.IncBookingEvent(metrics.EventCreated)

	// 4. Побочные эффекты после фиксации, ошибки только логируются
	uc.afterCreate(ctx, result, amountDue)

	return &Response{Session: result, AmountDue: amountDue}, nil
}

func (uc *UseCase) afterCreate(ctx context.Context, session *domain.Session, amountDue float64) {
	payload := map[string]interface{}{
		"date":      session.ScheduledDate.Format(domain.DateFormat),
		"time":      session.ScheduledTime.String(),
		"duration":  session.DurationMinutes,
		"price":     session.Price,
		"currency":  session.Currency,
		"amountDue": amountDue,
	}

	if !uc.notifier.Enqueue(notifier.NewEvent(notifier.EventBookingRequested, notifier.ChannelInApp, session.ExpertID, session.ID, payload)) {
		uc.logger.Warn("CreateSession: booking request notification for session id=%d dropped", session.ID)
	}
	if !uc.notifier.Enqueue(notifier.NewEvent(notifier.EventBookingConfirmation, notifier.ChannelEmail, session.ClientID, session.ID, payload)) {
		uc.logger.Warn("CreateSession: confirmation email for session id=%d dropped", session.ID)
	}

	if err := uc.cache.Invalidate(ctx, session.ExpertID); err != nil {
		uc.logger.Warn("CreateSession: failed to invalidate availability cache of expert id=%d: %v", session.ExpertID, err)
	}
}
