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

const snapshotColumns = `id, user_id, date, total_assets, liquid_assets, illiquid_assets,
	total_liabilities, short_term_liabilities, long_term_liabilities, equity, cash_balance, net_worth, created_at`

type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository создает репозиторий балансовых снимков.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func scanSnapshot(row pgx.Row, loc *time.Location) (models.FinancialSnapshot, error) {
	var s models.FinancialSnapshot
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.TotalAssets, &s.LiquidAssets, &s.IlliquidAssets,
		&s.TotalLiabilities, &s.ShortTermLiabilities, &s.LongTermLiabilities,
		&s.Equity, &s.CashBalance, &s.NetWorth, &s.CreatedAt,
	)
	if err != nil {
		return s, err
	}

	s.Date = timezone.FromStorage(s.Date, loc)
	return s, nil
}

// GetByDate возвращает снимок на календарную дату, если он существует.
func (r *SnapshotRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (models.FinancialSnapshot, bool, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`SELECT `+snapshotColumns+`
		 FROM financial_snapshots
		 WHERE user_id = $1 AND date = $2`,
		userID, timezone.ToStorage(date, loc),
	)

	snapshot, err := scanSnapshot(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FinancialSnapshot{}, false, nil
		}
		return models.FinancialSnapshot{}, false, err
	}

	return snapshot, true, nil
}

// Upsert сохраняет снимок. Повторный снимок на ту же дату замещает прежний.
func (r *SnapshotRepository) Upsert(ctx context.Context, s models.FinancialSnapshot) (models.FinancialSnapshot, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`INSERT INTO financial_snapshots (id, user_id, date, total_assets, liquid_assets, illiquid_assets,
			total_liabilities, short_term_liabilities, long_term_liabilities, equity, cash_balance, net_worth)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id, date) DO UPDATE
		 SET total_assets = EXCLUDED.total_assets,
		     liquid_assets = EXCLUDED.liquid_assets,
		     illiquid_assets = EXCLUDED.illiquid_assets,
		     total_liabilities = EXCLUDED.total_liabilities,
		     short_term_liabilities = EXCLUDED.short_term_liabilities,
		     long_term_liabilities = EXCLUDED.long_term_liabilities,
		     equity = EXCLUDED.equity,
		     cash_balance = EXCLUDED.cash_balance,
		     net_worth = EXCLUDED.net_worth
		 RETURNING `+snapshotColumns,
		uuid.New(), s.UserID, timezone.ToStorage(s.Date, loc),
		s.TotalAssets, s.LiquidAssets, s.IlliquidAssets,
		s.TotalLiabilities, s.ShortTermLiabilities, s.LongTermLiabilities,
		s.Equity, s.CashBalance, s.NetWorth,
	)

	return scanSnapshot(row, loc)
}

// List возвращает снимки пользователя от новых к старым.
func (r *SnapshotRepository) List(ctx context.Context, userID uuid.UUID) ([]models.FinancialSnapshot, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx,
		`SELECT `+snapshotColumns+`
		 FROM financial_snapshots
		 WHERE user_id = $1
		 ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.FinancialSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows, loc)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
