package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// MinPasswordLength matches the registration form.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("enter a valid email")
	ErrNameRequired       = errors.New("name is required")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidateEmail applies the same loose check the web forms use.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail trims and lowercases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
// Lookups return an error wrapping storage.ErrNotFound for unknown users.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register validates the form and creates an account with a bcrypt hash
// of the password. Emails are stored normalized.
func (a *PasswordAuthenticator) Register(ctx context.Context, reg Registration) (*models.User, error) {
	email := NormalizeEmail(reg.Email)
	name := strings.TrimSpace(reg.Name)

	if name == "" {
		return nil, ErrNameRequired
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := a.ValidateCredential(reg.Credential); err != nil {
		return nil, err
	}

	switch _, err := a.storage.GetUserByEmail(ctx, email); {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, name, string(hash))
	if err := a.storage.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
