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

const goalColumns = `id, user_id, title, target_amount, current_amount, target_date, completed_at, created_at, updated_at`

type GoalRepository struct {
	db *pgxpool.Pool
}

// NewGoalRepository создает репозиторий финансовых целей.
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

func scanGoal(row pgx.Row, loc *time.Location) (models.Goal, error) {
	var g models.Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.CompletedAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return g, err
	}

	g.TargetDate = timezone.FromStoragePtr(g.TargetDate, loc)
	g.CompletedAt = timezone.FromStoragePtr(g.CompletedAt, loc)
	return g, nil
}

// Create добавляет цель.
func (r *GoalRepository) Create(ctx context.Context, g models.Goal) (models.Goal, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`INSERT INTO goals (id, user_id, title, target_amount, current_amount, target_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+goalColumns,
		uuid.New(), g.UserID, g.Title, g.TargetAmount, g.CurrentAmount,
		timezone.ToStoragePtr(g.TargetDate, loc),
	)

	return scanGoal(row, loc)
}

// List возвращает цели пользователя.
func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	loc := timezone.FromContext(ctx)

	rows, err := r.db.Query(ctx,
		`SELECT `+goalColumns+`
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows, loc)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// Update изменяет цель. Достижение целевой суммы фиксирует дату завершения,
// откат ниже целевой суммы снимает ее.
func (r *GoalRepository) Update(ctx context.Context, g models.Goal) (models.Goal, error) {
	loc := timezone.FromContext(ctx)

	row := r.db.QueryRow(ctx,
		`UPDATE goals
		 SET title = $3,
		     target_amount = $4,
		     current_amount = $5,
		     target_date = $6,
		     completed_at = CASE
		         WHEN $5 >= $4 AND completed_at IS NULL THEN NOW()
		         WHEN $5 < $4 THEN NULL
		         ELSE completed_at
		     END,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		g.ID, g.UserID, g.Title, g.TargetAmount, g.CurrentAmount,
		timezone.ToStoragePtr(g.TargetDate, loc),
	)

	updated, err := scanGoal(row, loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, ErrNotFound
		}
		return updated, err
	}

	return updated, nil
}

// Delete удаляет цель пользователя.
func (r *GoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`,
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
