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

const debtColumns = `id, user_id, creditor, total_amount, remaining_amount, monthly_payment,
	annual_rate, type, status, start_date, end_date, paid_date, created_at, updated_at`

type DebtRepository struct {
	db *pgxpool.Pool
}

// NewDebtRepository создает репозиторий долгов.
func NewDebtRepository(db *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{db: db}
}

func scanDebt(row pgx.Row, loc *time.Location) (models.Debt, error) {
	var d models.Debt
	err := row.Scan(
		&d.ID, &d.UserID, &d.Creditor, &d.TotalAmount, &d.RemainingAmount,
		&d.MonthlyPayment, &d.AnnualRate, &d.Type, &d.Status,
		&d.StartDate, &d.EndDate, &d.PaidDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}

	d.StartDate = timezone.FromStorage(d.StartDate, loc)
	d.EndDate = timezone.FromStoragePtr(d.EndDate, loc)
	d.PaidDate = timezone.FromStoragePtr(d.PaidDate, loc)
	return d, nil
}

// Create добавляет долг. Остаток по умолчанию равен полной сумме.
func (r *DebtRepository) Create(ctx context.Context, d models.Debt) (models.Debt, error) {
	loc := timezone.FromContext(ctx)

	if d.RemainingAmount.IsZero() {
		d.RemainingAmount = d.TotalAmount
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO debts (id, user_id, creditor, total_amount, remaining_amount, monthly_payment, annual_rate, type, status, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', $9, $10)
		 RETURNING `+debtColumns,
		uuid.New(), d.UserID, d.Creditor, d.TotalAmount, d.RemainingAmount,
		d.MonthlyPayment, d.AnnualRate, d.Type,
		timezone.ToStorage(d.StartDate, loc), timezone.ToStoragePtr(d.EndDate, loc),
	)

	return scanDebt(row, loc)
}

// GetByID возвращает долг пользователя.
func (r *DebtRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Debt, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	debt, err := scanDebt(row, timezone.FromContext(ctx))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt, ErrNotFound
		}
		return debt, err
	}

	return debt, nil
}

// Update изменяет условия долга.
func (r *DebtRepository) Update(ctx context.Context, d models.Debt) (models.Debt, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE debts
		 SET creditor = $3,
		     total_amount = $4,
		     remaining_amount = $5,
		     monthly_payment = $6,
		     annual_rate = $7,
		     type = $8,
		     start_date = $9,
		     end_date = $10,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+debtColumns,
		d.ID, d.UserID, d.Creditor, d.TotalAmount, d.RemainingAmount,
		d.MonthlyPayment, d.AnnualRate, d.Type,
		timezone.ToStorage(d.StartDate, loc), timezone.ToStoragePtr(d.EndDate, loc),
	)

	updated, err := scanDebt(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// RecordPayment уменьшает остаток на сумму платежа, не опускаясь ниже нуля.
// Долг с нулевым остатком закрывается датой платежа.
func (r *DebtRepository) RecordPayment(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal, paidOn time.Time) (models.Debt, error) {
	if amount.Sign() <= 0 {
		return models.Debt{}, ErrInvalid
	}

	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE debts
		 SET remaining_amount = GREATEST(remaining_amount - $3, 0),
		     status = CASE WHEN remaining_amount - $3 <= 0 THEN 'paid' ELSE status END,
		     paid_date = CASE WHEN remaining_amount - $3 <= 0 THEN $4 ELSE paid_date END,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'active'
		 RETURNING `+debtColumns,
		id, userID, amount, timezone.ToStorage(paidOn, loc),
	)

	debt, err := scanDebt(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt, ErrNotFound
		}
		return debt, err
	}

	return debt, nil
}

// MarkPaid закрывает долг целиком, обнуляя остаток.
func (r *DebtRepository) MarkPaid(ctx context.Context, userID, id uuid.UUID, paidOn time.Time) (models.Debt, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE debts
		 SET remaining_amount = 0,
		     status = 'paid',
		     paid_date = $3,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'active'
		 RETURNING `+debtColumns,
		id, userID, timezone.ToStorage(paidOn, loc),
	)

	debt, err := scanDebt(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt, ErrNotFound
		}
		return debt, err
	}

	return debt, nil
}

// Delete удаляет долг пользователя.
func (r *DebtRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM debts WHERE id = $1 AND user_id = $2`,
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

// List возвращает все долги пользователя.
func (r *DebtRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Debt, error) {
	return r.list(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
}

// ListActive возвращает непогашенные долги пользователя.
func (r *DebtRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Debt, error) {
	return r.list(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE user_id = $1 AND status = 'active'
		 ORDER BY created_at`,
		userID,
	)
}

// ListActiveAsOf возвращает долги, остававшиеся непогашенными на отчетную дату.
func (r *DebtRepository) ListActiveAsOf(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]models.Debt, error) {
	loc := timezone.FromContext(ctx)
	until := timezone.ToStorage(asOf, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE user_id = $1
		   AND start_date < $2
		   AND (status = 'active' OR paid_date >= $2)
		 ORDER BY created_at`,
		userID, until,
	)
}

// ListStartedBetween возвращает долги, взятые в периоде.
func (r *DebtRepository) ListStartedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Debt, error) {
	loc := timezone.FromContext(ctx)
	from := timezone.ToStorage(start, loc)
	until := timezone.ToStorage(end, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE user_id = $1
		   AND start_date >= $2 AND start_date < $3
		 ORDER BY start_date`,
		userID, from, until,
	)
}

// ListPaidBetween возвращает долги, погашенные в периоде.
func (r *DebtRepository) ListPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Debt, error) {
	loc := timezone.FromContext(ctx)
	from := timezone.ToStorage(start, loc)
	until := timezone.ToStorage(end, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE user_id = $1
		   AND status = 'paid'
		   AND paid_date >= $2 AND paid_date < $3
		 ORDER BY paid_date`,
		userID, from, until,
	)
}

func (r *DebtRepository) list(ctx context.Context, query string, args ...any) ([]models.Debt, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows, loc)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	return debts, rows.Err()
}
