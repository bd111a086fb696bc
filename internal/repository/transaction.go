package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/timezone"
)

// TransactionFilter задает необязательные фильтры выборки операций.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *uuid.UUID
}

type TransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository создает репозиторий операций.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create добавляет операцию. Дата нормализуется к полуночи в зоне пользователя.
func (r *TransactionRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	loc := timezone.FromContext(ctx)

	var created models.Transaction
	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, amount, type, category_id, description, date, is_recurring, flow_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, user_id, amount, type, category_id, description, date, is_recurring, flow_type, created_at, updated_at`,
		uuid.New(), t.UserID, t.Amount, t.Type, t.CategoryID, t.Description,
		timezone.ToStorage(t.Date, loc), t.IsRecurring, t.FlowType,
	).Scan(
		&created.ID, &created.UserID, &created.Amount, &created.Type, &created.CategoryID,
		&created.Description, &created.Date, &created.IsRecurring, &created.FlowType,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return created, err
	}

	created.Date = timezone.FromStorage(created.Date, loc)
	return created, nil
}

// GetByID возвращает операцию пользователя.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	var t models.Transaction
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, amount, type, category_id, description, date, is_recurring, flow_type, created_at, updated_at
		 FROM transactions
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.CategoryID, &t.Description,
		&t.Date, &t.IsRecurring, &t.FlowType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, ErrNotFound
		}
		return t, err
	}

	t.Date = timezone.FromStorage(t.Date, timezone.FromContext(ctx))
	return t, nil
}

// Update изменяет операцию пользователя.
func (r *TransactionRepository) Update(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	loc := timezone.FromContext(ctx)

	var updated models.Transaction
	err := r.db.QueryRow(ctx,
		`UPDATE transactions
		 SET amount = $3,
		     type = $4,
		     category_id = $5,
		     description = $6,
		     date = $7,
		     is_recurring = $8,
		     flow_type = $9,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, amount, type, category_id, description, date, is_recurring, flow_type, created_at, updated_at`,
		t.ID, t.UserID, t.Amount, t.Type, t.CategoryID, t.Description,
		timezone.ToStorage(t.Date, loc), t.IsRecurring, t.FlowType,
	).Scan(
		&updated.ID, &updated.UserID, &updated.Amount, &updated.Type, &updated.CategoryID,
		&updated.Description, &updated.Date, &updated.IsRecurring, &updated.FlowType,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	updated.Date = timezone.FromStorage(updated.Date, loc)
	return updated, nil
}

// Delete удаляет операцию пользователя.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
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

// ListByPeriod возвращает операции за включительный период календарных дней.
func (r *TransactionRepository) ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Transaction, error) {
	return r.List(ctx, userID, start, end, TransactionFilter{})
}

// List возвращает операции за период с необязательными фильтрами по типу и категории.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, start, end time.Time, filter TransactionFilter) ([]models.Transaction, error) {
	loc := timezone.FromContext(ctx)
	from := timezone.ToStorage(start, loc)
	until := timezone.ToStorage(end, loc).AddDate(0, 0, 1)

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, type, category_id, description, date, is_recurring, flow_type, created_at, updated_at
		 FROM transactions
		 WHERE user_id = $1
		   AND date >= $2 AND date < $3
		   AND ($4::text IS NULL OR type = $4)
		   AND ($5::uuid IS NULL OR category_id = $5)
		 ORDER BY date DESC, created_at DESC`,
		userID, from, until, filter.Type, filter.CategoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.CategoryID, &t.Description,
			&t.Date, &t.IsRecurring, &t.FlowType, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Date = timezone.FromStorage(t.Date, loc)
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
