package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

// Repository кредитный баланс клиентов.
// Изменения баланса - атомарные UPDATE без чтения в приложение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID возвращает счет клиента. Если счета нет, возвращается нулевой баланс.
// Внутри транзакции строка блокируется до конца транзакции.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.ClientAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("user_id", "credit_balance", "updated_at").
		From("client_accounts").
		Where(squirrel.Eq{"user_id": userID})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var acc domain.ClientAccount
	err = executor.QueryRowContext(ctx, query, args...).Scan(&acc.UserID, &acc.CreditBalance, &acc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ClientAccount{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan account: %w", ErrExecQuery, err)
	}

	return &acc, nil
}

// Debit списывает amount. Баланс не может уйти в минус: при нехватке
// средств строка не обновляется и возвращается ErrInsufficientCredits.
func (r *Repository) Debit(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("client_accounts").
		Set("credit_balance", squirrel.Expr("credit_balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"credit_balance": amount}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Debit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Debit - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Debit - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientCredits
	}

	return nil
}

// Credit зачисляет amount, создавая счет при необходимости
func (r *Repository) Credit(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("client_accounts").
		Columns("user_id", "credit_balance").
		Values(userID, amount).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " +
			"credit_balance = client_accounts.credit_balance + EXCLUDED.credit_balance, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Credit - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Credit - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}
