// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/housesplit/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a record with the same key already exists.
	ErrConflict = errors.New("already exists")
)

// Store defines the ledger persistence operations.
// Ledger records are append-only: there are no update or delete methods.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its initial members.
	// group.ID, CreatedAt and any empty member IDs are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its members.
	// Returns an error wrapping ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddMembers appends members to an existing group. Empty IDs are generated.
	// Returns an error wrapping ErrConflict if a member ID is already taken.
	AddMembers(ctx context.Context, groupID string, members []models.Member) error

	// ListMembers returns a group's members ordered by ID.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CreateExpense persists an expense with its split.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a group's expenses ordered by OccurredAt, then ID.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlements returns a group's settlements ordered by OccurredAt, then ID.
	ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error)

	// CreateContactMessage stores a contact form submission.
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error

	// Close releases any resources held by the store.
	Close() error
}
