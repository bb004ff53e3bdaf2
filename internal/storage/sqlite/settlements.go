package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
	"github.com/mmynk/housesplit/internal/storage"
)

var settlementColumns = []string{"id", "group_id", "from_id", "to_id", "amount", "occurred_at", "created_by", "note"}

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.OccurredAt.IsZero() {
		settlement.OccurredAt = time.Now().UTC().Truncate(time.Second)
	}

	var note interface{} = nil
	if settlement.Note != "" {
		note = settlement.Note
	}

	query, args, err := sq.Insert("settlements").
		Columns(append(settlementColumns, "created_at")...).
		Values(settlement.ID, settlement.GroupID, settlement.FromID, settlement.ToID,
			int64(settlement.Amount), settlement.OccurredAt.Unix(), settlement.CreatedBy, note,
			time.Now().Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build settlement insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlements, err := s.querySettlements(ctx, sq.Eq{"id": settlementID})
	if err != nil {
		return nil, err
	}
	if len(settlements) == 0 {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return &settlements[0], nil
}

// ListSettlements retrieves all settlements for a group, oldest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	return s.querySettlements(ctx, sq.Eq{"group_id": groupID})
}

func (s *SQLiteStore) querySettlements(ctx context.Context, where sq.Eq) ([]models.Settlement, error) {
	query, args, err := sq.Select(settlementColumns...).
		From("settlements").
		Where(where).
		OrderBy("occurred_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build settlements query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var (
			settlement models.Settlement
			amount     int64
			occurredAt int64
			note       sql.NullString
		)
		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromID, &settlement.ToID,
			&amount, &occurredAt, &settlement.CreatedBy, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Amount = money.Amount(amount)
		settlement.OccurredAt = unixTime(occurredAt)
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
