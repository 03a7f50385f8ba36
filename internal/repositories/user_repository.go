package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"friendo-service/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

const userColumns = `id, email, username, password_hash, is_admin, created_at`

// UserRepository abstracts account and session persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (models.User, error)
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateSession(ctx context.Context, token string, userID int, expiresAt time.Time) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser stores a new account.
func (r *UserRepo) CreateUser(ctx context.Context, email, username, passwordHash string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (email, username, password_hash)
        VALUES ($1, $2, $3) RETURNING `+userColumns, email, username, passwordHash).
		StructScan(&u)
	return u, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail fetches a user by email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// CreateSession stores a bearer token.
func (r *UserRepo) CreateSession(ctx context.Context, token string, userID int, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`, token, userID, expiresAt)
	return err
}

// GetSession fetches an unexpired session by token.
func (r *UserRepo) GetSession(ctx context.Context, token string) (models.Session, error) {
	var s models.Session
	err := r.db.GetContext(ctx, &s, `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token=$1 AND expires_at > NOW()`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	return s, err
}

// DeleteSession revokes a session token.
func (r *UserRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}
