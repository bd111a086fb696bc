package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/timezone"
)

const accountColumns = `id, user_id, name, current_balance, is_active, created_at, updated_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository создает репозиторий счетов.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create добавляет счет.
func (r *AccountRepository) Create(ctx context.Context, a models.Account) (models.Account, error) {
	var created models.Account
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (id, user_id, name, current_balance, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING `+accountColumns,
		uuid.New(), a.UserID, a.Name, a.CurrentBalance,
	).Scan(&created.ID, &created.UserID, &created.Name, &created.CurrentBalance, &created.IsActive, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return created, err
	}

	return created, nil
}

// List возвращает счета пользователя.
func (r *AccountRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+accountColumns+`
		 FROM accounts
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.CurrentBalance, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// Update изменяет имя и остаток счета.
func (r *AccountRepository) Update(ctx context.Context, a models.Account) (models.Account, error) {
	var updated models.Account
	err := r.db.QueryRow(ctx,
		`UPDATE accounts
		 SET name = $3,
		     current_balance = $4,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+accountColumns,
		a.ID, a.UserID, a.Name, a.CurrentBalance,
	).Scan(&updated.ID, &updated.UserID, &updated.Name, &updated.CurrentBalance, &updated.IsActive, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// Deactivate выводит счет из оборота, сохраняя историю.
func (r *AccountRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE accounts
		 SET is_active = FALSE,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SumActiveBalances суммирует остатки действующих счетов, заведенных к дате.
func (r *AccountRepository) SumActiveBalances(ctx context.Context, userID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	loc := timezone.FromContext(ctx)
	until := timezone.ToStorage(asOf, loc).AddDate(0, 0, 1)

	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(current_balance), 0)
		 FROM accounts
		 WHERE user_id = $1 AND is_active AND created_at < $2`,
		userID, until,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
