package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-notes-api/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, fullname, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Fullname, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, fullname, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Fullname, &u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, fullname, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		 FROM users WHERE email = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Email, &u.Fullname, &u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindPublicByID loads the identity projection only; the password hash and
// refresh token never leave the database on this path.
func (r *UserRepository) FindPublicByID(ctx context.Context, id string) (model.PublicUser, error) {
	var u model.PublicUser
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, fullname, created_at, updated_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Fullname, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PublicUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("find public user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// Used by login, where the newest session always wins.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1`,
		userID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken swaps oldToken for newToken only if oldToken is still
// the stored value. A concurrent rotation that got there first makes the
// update match zero rows, which surfaces as ErrSessionConflict.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID string, oldToken string, newToken string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = $4 WHERE id = $1 AND refresh_token = $2`,
		userID, oldToken, newToken, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionConflict
	}
	return nil
}

// ClearRefreshToken is idempotent: clearing an already-cleared token is a
// no-op, not an error.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// UpdatePassword touches only the password hash; the stored refresh token
// is left alone so existing sessions survive a password change.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, userID string, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = lower($2), updated_at = $3 WHERE id = $1`,
		userID, strings.TrimSpace(email), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateFullname(ctx context.Context, userID string, fullname string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET fullname = $2, updated_at = $3 WHERE id = $1`,
		userID, fullname, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update fullname: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
