package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/housesplit/internal/models"
)

// CreateContactMessage stores a contact form submission.
func (s *SQLiteStore) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	query, args, err := sq.Insert("contact_messages").
		Columns("id", "name", "email", "message", "created_at").
		Values(msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build contact insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	return nil
}
