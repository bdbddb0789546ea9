package middleware

import (
	"context"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

type piiMiddleware struct {
	next ports.CredentialStore
}

// NewPIIMiddleware creates a middleware that drops identifying profile fields
// (user id and display name) before they reach the underlying store.
// The token and the cached credit count are kept.
func NewPIIMiddleware() Middleware {
	return func(next ports.CredentialStore) ports.CredentialStore {
		return &piiMiddleware{next: next}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, profile string, creds *domain.Credentials) error {
	// Clone so the caller's copy keeps its profile.
	cloned := *creds
	if creds.User != nil {
		cloned.User = &domain.UserProfile{RemainingCredits: creds.User.RemainingCredits}
	}

	return m.next.Save(ctx, profile, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, profile string) (*domain.Credentials, error) {
	return m.next.Load(ctx, profile)
}

func (m *piiMiddleware) Delete(ctx context.Context, profile string) error {
	return m.next.Delete(ctx, profile)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return listThrough(ctx, m.next)
}
