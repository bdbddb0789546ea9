package ports

import (
	"context"
	"errors"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// CredentialStore persists credentials outside a single wizard run.
// Profiles allow more than one account per machine; most callers use "default".
type CredentialStore interface {
	// Save persists the credentials for a profile, replacing any previous value.
	Save(ctx context.Context, profile string, creds *domain.Credentials) error

	// Load retrieves the credentials for a profile.
	// Returns domain.ErrCredentialsNotFound if nothing is stored.
	Load(ctx context.Context, profile string) (*domain.Credentials, error)

	// Delete removes the credentials for a profile. Deleting a missing profile is not an error.
	Delete(ctx context.Context, profile string) error
}

// CredentialLister is implemented by stores that can enumerate stored profiles.
type CredentialLister interface {
	List(ctx context.Context) ([]string, error)
}

// TokenSource hands out the current bearer token. An empty token is valid (anonymous request).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StoreTokenSource reads the token of one profile from a CredentialStore on every call.
type StoreTokenSource struct {
	Store   CredentialStore
	Profile string
}

// Token implements TokenSource.
func (s StoreTokenSource) Token(ctx context.Context) (string, error) {
	creds, err := s.Store.Load(ctx, s.Profile)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsNotFound) {
			return "", nil
		}
		return "", err
	}
	return creds.Token, nil
}
