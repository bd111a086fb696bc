package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/timezone"
)

type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя. Пустая таймзона заменяется зоной по умолчанию.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string, name *string, tz string) (models.User, error) {
	if tz == "" {
		tz = timezone.DefaultName
	}

	var user models.User
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, timezone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password_hash, name, timezone, created_at, updated_at`,
		email, passwordHash, name, tz,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user, ErrConflict
		}
		return user, err
	}

	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, timezone, created_at, updated_at
		 FROM users
		 WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, timezone, created_at, updated_at
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	return user, nil
}

// UpdateProfile изменяет имя и таймзону пользователя.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name *string, tz string) (models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     timezone = CASE WHEN $3 = '' THEN timezone ELSE $3 END,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, email, password_hash, name, timezone, created_at, updated_at`,
		id, name, tz,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Timezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	return user, nil
}
