package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

var userColumns = []string{"id", "email", "display_name", "password_hash", "created_at", "updated_at"}

// CreateUser inserts a new user. A duplicate email yields an error wrapping
// storage.ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query, args, err := sq.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their (normalized) email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"email": email}, "email "+email)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id}, id)
}

func (s *SQLiteStore) getUser(ctx context.Context, where sq.Eq, label string) (*models.User, error) {
	query, args, err := sq.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user := &models.User{}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", label, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
