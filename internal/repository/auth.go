// Package repository provides persistence implementations for the auth API's
// user accounts on PostgreSQL and SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/tourney/internal/models"
)

// ErrNotFound is returned when no user matches a lookup.
var ErrNotFound = errors.New("user not found")

// queries holds the dialect-specific SQL for one backend.
type queries struct {
	emailExists       string
	displayNameExists string
	insert            string
	byEmail           string
	byID              string
}

var postgresQueries = queries{
	emailExists:       `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
	displayNameExists: `SELECT EXISTS(SELECT 1 FROM users WHERE display_name = $1)`,
	insert:            `INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
	byEmail:           `SELECT id, email, display_name, password_hash, avatar_url, bio, created_at FROM users WHERE email = $1`,
	byID:              `SELECT id, email, display_name, password_hash, avatar_url, bio, created_at FROM users WHERE id = $1`,
}

var sqliteQueries = queries{
	emailExists:       `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`,
	displayNameExists: `SELECT EXISTS(SELECT 1 FROM users WHERE display_name = ?)`,
	insert:            `INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
	byEmail:           `SELECT id, email, display_name, password_hash, avatar_url, bio, created_at FROM users WHERE email = ?`,
	byID:              `SELECT id, email, display_name, password_hash, avatar_url, bio, created_at FROM users WHERE id = ?`,
}

// UserRepository stores user accounts in a SQL database.
type UserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	q  queries
}

// NewPostgresAuthRepository creates a UserRepository for a PostgreSQL connection.
func NewPostgresAuthRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db, q: postgresQueries}
}

// NewSQLiteAuthRepository creates a UserRepository for a SQLite connection.
func NewSQLiteAuthRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db, q: sqliteQueries}
}

// EmailExists reports whether an account already uses email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, r.q.emailExists, email).Scan(&exists)
	return exists, err
}

// DisplayNameExists reports whether an account already uses name.
func (r *UserRepository) DisplayNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, r.q.displayNameExists, name).Scan(&exists)
	return exists, err
}

// CreateUser inserts u. ID, PasswordHash and CreatedAt must already be set.
func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(ctx, r.q.insert, u.ID, u.Email, u.DisplayName, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, r.q.byEmail, email))
}

// GetUserByID returns the user with the given id or ErrNotFound.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, r.q.byID, id))
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		avatar sql.NullString
		bio    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &avatar, &bio, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	return &u, nil
}
