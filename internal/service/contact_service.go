package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/models"
)

// MaxContactMessageLength bounds the size of a stored message.
const MaxContactMessageLength = 5000

// ContactStore persists contact form submissions.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

// ContactService accepts messages from the public contact form.
type ContactService struct {
	store ContactStore
}

// NewContactService creates a new contact service.
func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// Submit validates and stores a contact message.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*models.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = auth.NormalizeEmail(email)
	message = strings.TrimSpace(message)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > MaxContactMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, MaxContactMessageLength)
	}

	msg := &models.ContactMessage{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		slog.Error("Failed to store contact message", "error", err)
		return nil, err
	}

	slog.Info("Contact message received", "id", msg.ID)
	return msg, nil
}
