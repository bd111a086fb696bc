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

const assetColumns = `id, user_id, name, value, type, category, is_active, purchase_date, created_at, updated_at`

type AssetRepository struct {
	db *pgxpool.Pool
}

// NewAssetRepository создает репозиторий активов.
func NewAssetRepository(db *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{db: db}
}

func scanAsset(row pgx.Row, loc *time.Location) (models.Asset, error) {
	var a models.Asset
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Value, &a.Type, &a.Category,
		&a.IsActive, &a.PurchaseDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	a.PurchaseDate = timezone.FromStoragePtr(a.PurchaseDate, loc)
	return a, nil
}

// Create добавляет актив.
func (r *AssetRepository) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`INSERT INTO assets (id, user_id, name, value, type, category, is_active, purchase_date)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		 RETURNING `+assetColumns,
		uuid.New(), a.UserID, a.Name, a.Value, a.Type, a.Category,
		timezone.ToStoragePtr(a.PurchaseDate, loc),
	)

	return scanAsset(row, loc)
}

// GetByID возвращает актив пользователя.
func (r *AssetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Asset, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	asset, err := scanAsset(row, timezone.FromContext(ctx))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return asset, ErrNotFound
		}
		return asset, err
	}

	return asset, nil
}

// Update изменяет актив пользователя.
func (r *AssetRepository) Update(ctx context.Context, a models.Asset) (models.Asset, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE assets
		 SET name = $3,
		     value = $4,
		     type = $5,
		     category = $6,
		     purchase_date = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+assetColumns,
		a.ID, a.UserID, a.Name, a.Value, a.Type, a.Category,
		timezone.ToStoragePtr(a.PurchaseDate, loc),
	)

	updated, err := scanAsset(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// Deactivate помечает актив проданным или выбывшим. Запись сохраняется,
// момент деактивации фиксируется в updated_at.
func (r *AssetRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) (models.Asset, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE assets
		 SET is_active = FALSE,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING `+assetColumns,
		id, userID,
	)

	asset, err := scanAsset(row, timezone.FromContext(ctx))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return asset, ErrNotFound
		}
		return asset, err
	}

	return asset, nil
}

// List возвращает все активы пользователя, включая деактивированные.
func (r *AssetRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	return r.list(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
}

// ListActive возвращает действующие активы пользователя.
func (r *AssetRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Asset, error) {
	return r.list(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at`,
		userID,
	)
}

// ListActiveAsOf возвращает активы, действовавшие на отчетную дату.
func (r *AssetRepository) ListActiveAsOf(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]models.Asset, error) {
	loc := timezone.FromContext(ctx)
	until := timezone.ToStorage(asOf, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE user_id = $1
		   AND created_at < $2
		   AND (is_active OR updated_at >= $2)
		 ORDER BY created_at`,
		userID, until,
	)
}

// ListAcquiredBetween возвращает активы, приобретенные в периоде.
func (r *AssetRepository) ListAcquiredBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Asset, error) {
	loc := timezone.FromContext(ctx)
	from := timezone.ToStorage(start, loc)
	until := timezone.ToStorage(end, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE user_id = $1
		   AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at`,
		userID, from, until,
	)
}

// ListDeactivatedBetween возвращает активы, выбывшие в периоде.
func (r *AssetRepository) ListDeactivatedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Asset, error) {
	loc := timezone.FromContext(ctx)
	from := timezone.ToStorage(start, loc)
	until := timezone.ToStorage(end, loc).AddDate(0, 0, 1)

	return r.list(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE user_id = $1
		   AND NOT is_active
		   AND updated_at >= $2 AND updated_at < $3
		 ORDER BY updated_at`,
		userID, from, until,
	)
}

func (r *AssetRepository) list(ctx context.Context, query string, args ...any) ([]models.Asset, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows, loc)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}
