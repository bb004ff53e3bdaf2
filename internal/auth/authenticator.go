package auth

import (
	"context"

	"github.com/mmynk/housesplit/internal/models"
)

// Registration is the sign-up form: a display name, a login email and the
// credential the Authenticator checks on later logins.
type Registration struct {
	Name       string
	Email      string
	Credential string
}

// Authenticator creates accounts and verifies logins. The HTTP layer only
// sees this interface, so the credential scheme can change underneath it.
type Authenticator interface {
	Register(ctx context.Context, reg Registration) (*models.User, error)
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
