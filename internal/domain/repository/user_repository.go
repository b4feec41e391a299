package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	DeleteByID(ctx context.Context, id string) error
	RevokeTokens(ctx context.Context, id string, at time.Time) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	const op = "pgUserRepository.Create"
	query := `INSERT INTO users (id, user_name, role, color)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_name) DO NOTHING
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.UserName, user.Role, user.Color).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewStorageError(common.StorageUniqueViolation, op,
			fmt.Errorf("user_name %q already taken", user.UserName))
	}
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, user_name, role, color, tokens_valid_after, created_at, updated_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	var watermark sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.UserName, &user.Role, &user.Color, &watermark, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, common.TranslateStorageError("pgUserRepository.FindByID", err)
	}
	if watermark.Valid {
		user.TokensValidAfter = &watermark.Time
	}
	return user, nil
}

// DeleteByID removes the user; their solutions, votes and comments cascade.
func (r *pgUserRepository) DeleteByID(ctx context.Context, id string) error {
	const op = "pgUserRepository.DeleteByID"
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return requireAffected(op, res)
}

func (r *pgUserRepository) RevokeTokens(ctx context.Context, id string, at time.Time) error {
	const op = "pgUserRepository.RevokeTokens"
	query := `UPDATE users SET tokens_valid_after = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return requireAffected(op, res)
}
