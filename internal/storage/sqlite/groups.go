package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// CreateGroup persists a new group and its initial members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("ledger_groups").
		Columns("id", "name", "created_at", "created_by").
		Values(group.ID, group.Name, group.CreatedAt.Unix(), group.CreatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query, args, err := sq.Select("id", "name", "created_at", "created_by").
		From("ledger_groups").
		Where(sq.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}

	group := &models.Group{}
	var createdAt int64
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&group.ID, &group.Name, &createdAt, &group.CreatedBy)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = unixTime(createdAt)

	group.Members, err = s.listMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all groups with their members, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	query, args, err := sq.Select("id", "name", "created_at", "created_by").
		From("ledger_groups").
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build groups query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var createdAt int64
		if err := rows.Scan(&group.ID, &group.Name, &createdAt, &group.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.CreatedAt = unixTime(createdAt)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = s.listMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddMembers appends members to an existing group.
func (s *SQLiteStore) AddMembers(ctx context.Context, groupID string, members []models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, sq.Select().From("ledger_groups").Where(sq.Eq{"id": groupID}))
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	if !found {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	if err := insertMembers(ctx, tx, groupID, members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMembers returns a group's members ordered by ID.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	found, err := exists(ctx, s.db, sq.Select().From("ledger_groups").Where(sq.Eq{"id": groupID}))
	if err != nil {
		return nil, fmt.Errorf("failed to check group existence: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return s.listMembers(ctx, groupID)
}

func (s *SQLiteStore) listMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	query, args, err := sq.Select("id", "name").
		From("group_members").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build members query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// insertMembers assigns missing IDs in place and rejects IDs already used
// in the group.
func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, members []models.Member) error {
	for i := range members {
		m := &members[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}

		taken, err := exists(ctx, tx, sq.Select().From("group_members").
			Where(sq.Eq{"group_id": groupID, "id": m.ID}))
		if err != nil {
			return fmt.Errorf("failed to check member: %w", err)
		}
		if taken {
			return fmt.Errorf("member %s: %w", m.ID, storage.ErrConflict)
		}

		query, args, err := sq.Insert("group_members").
			Columns("group_id", "id", "name").
			Values(groupID, m.ID, m.Name).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build member insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}
