package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/models"
)

// AuthService registers and logs in users, issuing a session token for each.
type AuthService struct {
	authenticator auth.Authenticator
	users         auth.UserStorage
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// Session is an authenticated user together with a signed token.
type Session struct {
	User  *models.User
	Token string
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, users auth.UserStorage, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	s.logger.Info("Register request", "email", email)

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Name:       name,
		Email:      email,
		Credential: password,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// CurrentUser loads the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, auth.ErrMissingToken
	}
	return s.users.GetUserByID(ctx, userID)
}
