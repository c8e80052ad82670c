package expert

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
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Repository репозиторий профилей экспертов и их расписаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория экспертов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает эксперта вместе с окнами доступности и перерывами.
// Внутри транзакции строка эксперта блокируется (FOR UPDATE), поэтому
// создания сессий к одному эксперту выполняются последовательно.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Expert, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id",
		"display_name",
		"hourly_rate",
		"currency",
		"timezone",
		"slot_duration_minutes",
		"is_approved",
		"is_accepting_clients",
		"total_sessions",
		"completed_sessions",
		"cancelled_sessions",
		"total_earnings",
		"rating",
		"review_count",
		"created_at",
		"updated_at",
	).
		From("experts").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.Expert
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.DisplayName,
		&e.HourlyRate,
		&e.Currency,
		&e.Timezone,
		&e.SlotDurationMinutes,
		&e.IsApproved,
		&e.IsAcceptingClients,
		&e.Stats.TotalSessions,
		&e.Stats.CompletedSessions,
		&e.Stats.CancelledSessions,
		&e.Stats.TotalEarnings,
		&e.Stats.Rating,
		&e.Stats.ReviewCount,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan expert: %w", ErrScanRow, err)
	}

	if e.Availability, err = r.getAvailability(ctx, executor, id); err != nil {
		return nil, err
	}
	if e.BreakTimes, err = r.getBreakTimes(ctx, executor, id); err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *Repository) getAvailability(ctx context.Context, executor DBExecutor, expertID int64) (domain.WeeklyAvailability, error) {
	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time").
		From("expert_availability").
		Where(squirrel.Eq{"expert_id": expertID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getAvailability - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	availability := make(domain.WeeklyAvailability)
	for rows.Next() {
		var (
			weekday int
			window  domain.TimeRange
		)
		if err := rows.Scan(&weekday, &window.Start, &window.End); err != nil {
			return nil, fmt.Errorf("%w: getAvailability - scan row: %v", ErrScanRow, err)
		}
		day := time.Weekday(weekday)
		availability[day] = append(availability[day], window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getAvailability - rows error: %w", ErrScanRow, err)
	}

	return availability, nil
}

func (r *Repository) getBreakTimes(ctx context.Context, executor DBExecutor, expertID int64) ([]domain.BreakTime, error) {
	query, args, err := psqlbuilder.Select("start_time", "end_time", "weekdays").
		From("expert_break_times").
		Where(squirrel.Eq{"expert_id": expertID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBreakTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBreakTimes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]domain.BreakTime, 0)
	for rows.Next() {
		var (
			start, end types.TimeString
			weekdays   pq.Int64Array
		)
		if err := rows.Scan(&start, &end, &weekdays); err != nil {
			return nil, fmt.Errorf("%w: getBreakTimes - scan row: %v", ErrScanRow, err)
		}

		b := domain.BreakTime{Start: start, End: end}
		for _, d := range weekdays {
			b.Weekdays = append(b.Weekdays, time.Weekday(d))
		}
		breaks = append(breaks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBreakTimes - rows error: %w", ErrScanRow, err)
	}

	return breaks, nil
}

// ReplaceSchedule заменяет часовой пояс, шаг слотов, окна и перерывы эксперта.
// Должен вызываться внутри транзакции.
func (r *Repository) ReplaceSchedule(ctx context.Context, schedule *domain.ExpertSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("experts").
		Set("timezone", schedule.Timezone).
		Set("slot_duration_minutes", schedule.SlotDurationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": schedule.ExpertID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceSchedule - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execAffecting(ctx, executor, "ReplaceSchedule", query, args); err != nil {
		return err
	}

	for _, table := range []string{"expert_availability", "expert_break_times"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"expert_id": schedule.ExpertID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - delete %s: %w", ErrExecQuery, table, err)
		}
	}

	windows := psqlbuilder.Insert("expert_availability").
		Columns("expert_id", "weekday", "start_time", "end_time")
	windowCount := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, w := range schedule.Availability[day] {
			windows = windows.Values(schedule.ExpertID, int(day), w.Start, w.End)
			windowCount++
		}
	}
	if windowCount > 0 {
		query, args, err := windows.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - build availability insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - insert availability: %w", ErrExecQuery, err)
		}
	}

	if len(schedule.BreakTimes) > 0 {
		breaks := psqlbuilder.Insert("expert_break_times").
			Columns("expert_id", "start_time", "end_time", "weekdays")
		for _, b := range schedule.BreakTimes {
			weekdays := make(pq.Int64Array, 0, len(b.Weekdays))
			for _, d := range b.Weekdays {
				weekdays = append(weekdays, int64(d))
			}
			breaks = breaks.Values(schedule.ExpertID, b.Start, b.End, weekdays)
		}
		query, args, err := breaks.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - build break times insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceSchedule - insert break times: %w", ErrExecQuery, err)
		}
	}

	return nil
}

// AddCompletedSession учитывает завершенную сессию и заработок эксперта
func (r *Repository) AddCompletedSession(ctx context.Context, id int64, earnings float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("experts").
		Set("completed_sessions", squirrel.Expr("completed_sessions + 1")).
		Set("total_sessions", squirrel.Expr("total_sessions + 1")).
		Set("total_earnings", squirrel.Expr("total_earnings + ?", earnings)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddCompletedSession - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "AddCompletedSession", query, args)
}

// AddCancelledSession увеличивает счетчик отмен клиентами
func (r *Repository) AddCancelledSession(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("experts").
		Set("cancelled_sessions", squirrel.Expr("cancelled_sessions + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddCancelledSession - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "AddCancelledSession", query, args)
}

// ApplyRating добавляет оценку к среднему одним UPDATE:
// rating = (rating * review_count + r) / (review_count + 1).
// Возвращает новые значения рейтинга и количества отзывов.
func (r *Repository) ApplyRating(ctx context.Context, id int64, rating int) (float64, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("experts").
		Set("rating", squirrel.Expr("(rating * review_count + ?) / (review_count + 1)", rating)).
		Set("review_count", squirrel.Expr("review_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING rating, review_count").
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ApplyRating - build update query: %v", ErrBuildQuery, err)
	}

	var (
		newRating float64
		count     int
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&newRating, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrExpertNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ApplyRating - execute update: %w", ErrExecQuery, err)
	}

	return newRating, count, nil
}

func (r *Repository) execAffecting(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrExpertNotFound
	}

	return nil
}
