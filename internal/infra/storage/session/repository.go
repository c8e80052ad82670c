package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const (
	pgUniqueViolation = "23505"
	activeSlotIndex   = "sessions_active_slot_uidx"
)

var sessionColumns = []string{
	"id",
	"client_id",
	"expert_id",
	"scheduled_date",
	"scheduled_time",
	"end_time",
	"duration_minutes",
	"starts_at",
	"ends_at",
	"price",
	"currency",
	"status",
	"payment_status",
	"expert_commission",
	"platform_commission",
	"user_credits_used",
	"rating",
	"review",
	"reviewed_at",
	"cancel_reason",
	"cancelled_by",
	"cancelled_by_role",
	"cancelled_at",
	"completed_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую сессию.
// Нарушение уникального индекса активных слотов возвращается как ErrSlotTaken,
// это последний рубеж защиты от двойного бронирования при гонке запросов.
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"client_id",
			"expert_id",
			"scheduled_date",
			"scheduled_time",
			"end_time",
			"duration_minutes",
			"starts_at",
			"ends_at",
			"price",
			"currency",
			"status",
			"payment_status",
			"expert_commission",
			"platform_commission",
			"user_credits_used",
		).
		Values(
			s.ClientID,
			s.ExpertID,
			s.ScheduledDate,
			s.ScheduledTime,
			s.EndTime,
			s.DurationMinutes,
			s.StartsAt,
			s.EndsAt,
			s.Price,
			s.Currency,
			s.Status,
			s.PaymentStatus,
			s.Metadata.ExpertCommission,
			s.Metadata.PlatformCommission,
			s.Metadata.UserCreditsUsed,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isActiveSlotViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// GetByID получает сессию по ID. Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %w", ErrScanRow, err)
	}

	return s, nil
}

// GetActiveByExpertAndDates возвращает активные (pending, confirmed) сессии эксперта
// в диапазоне дат включительно. Внутри транзакции строки блокируются: так
// создание сессии видит все пересекающиеся бронирования дня.
func (r *Repository) GetActiveByExpertAndDates(ctx context.Context, expertID int64, from, to time.Time) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"expert_id": expertID}).
		Where(squirrel.GtOrEq{"scheduled_date": from}).
		Where(squirrel.LtOrEq{"scheduled_date": to}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("scheduled_date ASC", "scheduled_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByExpertAndDates - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetActiveByExpertAndDates", query, args)
}

// List возвращает сессии по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		OrderBy("scheduled_date DESC", "scheduled_time DESC")

	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.ExpertID != nil {
		builder = builder.Where(squirrel.Eq{"expert_id": *filter.ExpertID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"scheduled_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"scheduled_date": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "List", query, args)
}

// ListDueForCompletion подтвержденные сессии, которые закончились к моменту now
func (r *Repository) ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.LtOrEq{"ends_at": now}).
		OrderBy("ends_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueForCompletion - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListDueForCompletion", query, args)
}

// ListDueForReminder подтвержденные сессии без напоминания, начинающиеся в (now, until]
func (r *Repository) ListDueForReminder(ctx context.Context, now, until time.Time, limit int) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		Where(squirrel.Gt{"starts_at": now}).
		Where(squirrel.LtOrEq{"starts_at": until}).
		OrderBy("starts_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueForReminder - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListDueForReminder", query, args)
}

// ListStalePending неоплаченные pending сессии, созданные не позже createdBefore
// или уже начавшиеся к моменту now
func (r *Repository) ListStalePending(ctx context.Context, createdBefore, now time.Time, limit int) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Eq{"payment_status": []string{string(domain.PaymentPending), string(domain.PaymentFailed)}}).
		Where(squirrel.Or{
			squirrel.LtOrEq{"created_at": createdBefore},
			squirrel.LtOrEq{"starts_at": now},
		}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListStalePending", query, args)
}

// Update сохраняет изменяемые поля сессии после перехода состояния.
// Цена, время и снимок комиссий после создания не меняются.
func (r *Repository) Update(ctx context.Context, s *domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("status", s.Status).
		Set("payment_status", s.PaymentStatus).
		Set("rating", s.Rating).
		Set("review", s.Review).
		Set("reviewed_at", s.ReviewedAt).
		Set("cancel_reason", s.CancelReason).
		Set("cancelled_by", s.CancelledBy).
		Set("cancelled_by_role", s.CancelledByRole).
		Set("cancelled_at", s.CancelledAt).
		Set("completed_at", s.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// MarkReminderSent отмечает отправку напоминания.
// Возвращает false, если напоминание уже было отмечено другим обработчиком.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("reminder_sent_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"reminder_sent_at": nil}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Session, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s               domain.Session
		rating          sql.NullInt64
		review          sql.NullString
		cancelReason    sql.NullString
		cancelledBy     sql.NullInt64
		cancelledByRole sql.NullString
		reviewedAt      sql.NullTime
		cancelledAt     sql.NullTime
		completedAt     sql.NullTime
		reminderSentAt  sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.ClientID,
		&s.ExpertID,
		&s.ScheduledDate,
		&s.ScheduledTime,
		&s.EndTime,
		&s.DurationMinutes,
		&s.StartsAt,
		&s.EndsAt,
		&s.Price,
		&s.Currency,
		&s.Status,
		&s.PaymentStatus,
		&s.Metadata.ExpertCommission,
		&s.Metadata.PlatformCommission,
		&s.Metadata.UserCreditsUsed,
		&rating,
		&review,
		&reviewedAt,
		&cancelReason,
		&cancelledBy,
		&cancelledByRole,
		&cancelledAt,
		&completedAt,
		&reminderSentAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		v := int(rating.Int64)
		s.Rating = &v
	}
	if review.Valid {
		s.Review = &review.String
	}
	if cancelReason.Valid {
		s.CancelReason = &cancelReason.String
	}
	if cancelledBy.Valid {
		s.CancelledBy = &cancelledBy.Int64
	}
	if cancelledByRole.Valid {
		role := domain.ActorRole(cancelledByRole.String)
		s.CancelledByRole = &role
	}
	s.ReviewedAt = nullTimePtr(reviewedAt)
	s.CancelledAt = nullTimePtr(cancelledAt)
	s.CompletedAt = nullTimePtr(completedAt)
	s.ReminderSentAt = nullTimePtr(reminderSentAt)

	return &s, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func statusStrings(statuses []domain.SessionStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

// isActiveSlotViolation проверяет, что ошибка - нарушение индекса активных слотов
func isActiveSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == activeSlotIndex
}
