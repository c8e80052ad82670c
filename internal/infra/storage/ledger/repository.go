package ledger

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

// Repository журнал денежных операций. Записи только добавляются.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись
func (r *Repository) Create(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("ledger_entries").
		Columns(
			"session_id",
			"client_id",
			"expert_id",
			"type",
			"amount",
			"currency",
			"expert_commission",
			"platform_commission",
			"credits_used",
		).
		Values(
			entry.SessionID,
			entry.ClientID,
			entry.ExpertID,
			entry.Type,
			entry.Amount,
			entry.Currency,
			entry.ExpertCommission,
			entry.PlatformCommission,
			entry.CreditsUsed,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return entry, nil
}

// ListBySession записи по сессии в порядке создания
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]*domain.LedgerEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"session_id",
		"client_id",
		"expert_id",
		"type",
		"amount",
		"currency",
		"expert_commission",
		"platform_commission",
		"credits_used",
		"created_at",
	).
		From("ledger_entries").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.LedgerEntry, 0)
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.ClientID,
			&e.ExpertID,
			&e.Type,
			&e.Amount,
			&e.Currency,
			&e.ExpertCommission,
			&e.PlatformCommission,
			&e.CreditsUsed,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBySession - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySession - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
