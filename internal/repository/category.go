package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finance-tracker/backend/internal/models"
)

const categoryColumns = `id, user_id, name, emoji, color, type, created_at`

type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository создает репозиторий категорий операций.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create добавляет категорию. Имя уникально в пределах пользователя.
func (r *CategoryRepository) Create(ctx context.Context, c models.TransactionCategory) (models.TransactionCategory, error) {
	var created models.TransactionCategory
	err := r.db.QueryRow(ctx,
		`INSERT INTO transaction_categories (id, user_id, name, emoji, color, type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+categoryColumns,
		uuid.New(), c.UserID, c.Name, c.Emoji, c.Color, c.Type,
	).Scan(&created.ID, &created.UserID, &created.Name, &created.Emoji, &created.Color, &created.Type, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return created, ErrConflict
		}
		return created, err
	}

	return created, nil
}

// List возвращает категории пользователя.
func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]models.TransactionCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+`
		 FROM transaction_categories
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.TransactionCategory
	for rows.Next() {
		var c models.TransactionCategory
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Emoji, &c.Color, &c.Type, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// MapByUser возвращает категории пользователя, проиндексированные по идентификатору.
func (r *CategoryRepository) MapByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]models.TransactionCategory, error) {
	categories, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]models.TransactionCategory, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}

	return index, nil
}

// Update изменяет категорию пользователя.
func (r *CategoryRepository) Update(ctx context.Context, c models.TransactionCategory) (models.TransactionCategory, error) {
	var updated models.TransactionCategory
	err := r.db.QueryRow(ctx,
		`UPDATE transaction_categories
		 SET name = $3,
		     emoji = $4,
		     color = $5,
		     type = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+categoryColumns,
		c.ID, c.UserID, c.Name, c.Emoji, c.Color, c.Type,
	).Scan(&updated.ID, &updated.UserID, &updated.Name, &updated.Emoji, &updated.Color, &updated.Type, &updated.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return updated, ErrConflict
		}
		return updated, err
	}

	return updated, nil
}

// Delete удаляет категорию. Пока на категорию ссылаются операции, удаление
// отклоняется ограничением внешнего ключа.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM transaction_categories WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrConflict
		}
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
