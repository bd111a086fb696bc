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

const recurringColumns = `id, user_id, name, amount, frequency, category, is_active, start_date, end_date, created_at, updated_at`

// RecurringRepository хранит плановые регулярные потоки: источники дохода
// и регулярные расходы. Таблицы симметричны.
type RecurringRepository struct {
	db *pgxpool.Pool
}

// NewRecurringRepository создает репозиторий регулярных потоков.
func NewRecurringRepository(db *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func scanIncomeSource(row pgx.Row, loc *time.Location) (models.IncomeSource, error) {
	var s models.IncomeSource
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Amount, &s.Frequency, &s.Category,
		&s.IsActive, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}

	s.StartDate = timezone.FromStorage(s.StartDate, loc)
	s.EndDate = timezone.FromStoragePtr(s.EndDate, loc)
	return s, nil
}

func scanRecurringExpense(row pgx.Row, loc *time.Location) (models.RecurringExpense, error) {
	var e models.RecurringExpense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Amount, &e.Frequency, &e.Category,
		&e.IsActive, &e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}

	e.StartDate = timezone.FromStorage(e.StartDate, loc)
	e.EndDate = timezone.FromStoragePtr(e.EndDate, loc)
	return e, nil
}

// CreateIncomeSource добавляет источник дохода.
func (r *RecurringRepository) CreateIncomeSource(ctx context.Context, s models.IncomeSource) (models.IncomeSource, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`INSERT INTO income_sources (id, user_id, name, amount, frequency, category, is_active, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
		 RETURNING `+recurringColumns,
		uuid.New(), s.UserID, s.Name, s.Amount, s.Frequency, s.Category,
		timezone.ToStorage(s.StartDate, loc), timezone.ToStoragePtr(s.EndDate, loc),
	)

	return scanIncomeSource(row, loc)
}

// UpdateIncomeSource изменяет источник дохода.
func (r *RecurringRepository) UpdateIncomeSource(ctx context.Context, s models.IncomeSource) (models.IncomeSource, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE income_sources
		 SET name = $3,
		     amount = $4,
		     frequency = $5,
		     category = $6,
		     is_active = $7,
		     start_date = $8,
		     end_date = $9,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recurringColumns,
		s.ID, s.UserID, s.Name, s.Amount, s.Frequency, s.Category, s.IsActive,
		timezone.ToStorage(s.StartDate, loc), timezone.ToStoragePtr(s.EndDate, loc),
	)

	updated, err := scanIncomeSource(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// DeleteIncomeSource удаляет источник дохода.
func (r *RecurringRepository) DeleteIncomeSource(ctx context.Context, userID, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM income_sources WHERE id = $1 AND user_id = $2`, userID, id)
}

// ListIncomeSources возвращает все источники дохода пользователя.
func (r *RecurringRepository) ListIncomeSources(ctx context.Context, userID uuid.UUID) ([]models.IncomeSource, error) {
	return r.listIncomeSources(ctx,
		`SELECT `+recurringColumns+`
		 FROM income_sources
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
}

// ListActiveIncomeSources возвращает действующие источники дохода.
func (r *RecurringRepository) ListActiveIncomeSources(ctx context.Context, userID uuid.UUID) ([]models.IncomeSource, error) {
	return r.listIncomeSources(ctx,
		`SELECT `+recurringColumns+`
		 FROM income_sources
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at`,
		userID,
	)
}

// CreateRecurringExpense добавляет регулярный расход.
func (r *RecurringRepository) CreateRecurringExpense(ctx context.Context, e models.RecurringExpense) (models.RecurringExpense, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`INSERT INTO recurring_expenses (id, user_id, name, amount, frequency, category, is_active, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
		 RETURNING `+recurringColumns,
		uuid.New(), e.UserID, e.Name, e.Amount, e.Frequency, e.Category,
		timezone.ToStorage(e.StartDate, loc), timezone.ToStoragePtr(e.EndDate, loc),
	)

	return scanRecurringExpense(row, loc)
}

// UpdateRecurringExpense изменяет регулярный расход.
func (r *RecurringRepository) UpdateRecurringExpense(ctx context.Context, e models.RecurringExpense) (models.RecurringExpense, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE recurring_expenses
		 SET name = $3,
		     amount = $4,
		     frequency = $5,
		     category = $6,
		     is_active = $7,
		     start_date = $8,
		     end_date = $9,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recurringColumns,
		e.ID, e.UserID, e.Name, e.Amount, e.Frequency, e.Category, e.IsActive,
		timezone.ToStorage(e.StartDate, loc), timezone.ToStoragePtr(e.EndDate, loc),
	)

	updated, err := scanRecurringExpense(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// DeleteRecurringExpense удаляет регулярный расход.
func (r *RecurringRepository) DeleteRecurringExpense(ctx context.Context, userID, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM recurring_expenses WHERE id = $1 AND user_id = $2`, userID, id)
}

// ListRecurringExpenses возвращает все регулярные расходы пользователя.
func (r *RecurringRepository) ListRecurringExpenses(ctx context.Context, userID uuid.UUID) ([]models.RecurringExpense, error) {
	return r.listRecurringExpenses(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_expenses
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
}

// ListActiveRecurringExpenses возвращает действующие регулярные расходы.
func (r *RecurringRepository) ListActiveRecurringExpenses(ctx context.Context, userID uuid.UUID) ([]models.RecurringExpense, error) {
	return r.listRecurringExpenses(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_expenses
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at`,
		userID,
	)
}

func (r *RecurringRepository) listIncomeSources(ctx context.Context, query string, args ...any) ([]models.IncomeSource, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.IncomeSource
	for rows.Next() {
		source, err := scanIncomeSource(rows, loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

func (r *RecurringRepository) listRecurringExpenses(ctx context.Context, query string, args ...any) ([]models.RecurringExpense, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.RecurringExpense
	for rows.Next() {
		expense, err := scanRecurringExpense(rows, loc)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func (r *RecurringRepository) delete(ctx context.Context, query string, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
