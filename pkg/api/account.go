package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/pagewizard/internal/dto"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// Account ties a Client to the credential store: login writes the token and
// cached profile, logout clears them.
type Account struct {
	client  *Client
	store   ports.CredentialStore
	profile string
}

// NewAccount creates an account bound to one store profile.
func NewAccount(client *Client, store ports.CredentialStore, profile string) *Account {
	return &Account{client: client, store: store, profile: profile}
}

// TokenSource reads the account token from the store on every call.
func (a *Account) TokenSource() ports.TokenSource {
	return ports.StoreTokenSource{Store: a.store, Profile: a.profile}
}

// Login authenticates with a user id and password.
func (a *Account) Login(ctx context.Context, userID, password string, remember bool) (*domain.Credentials, error) {
	return a.login(ctx, map[string]any{
		"authType": "password",
		"userId":   userID,
		"password": password,
	}, remember)
}

// LoginWithAPIKey authenticates with an API key.
func (a *Account) LoginWithAPIKey(ctx context.Context, apiKey string, remember bool) (*domain.Credentials, error) {
	return a.login(ctx, map[string]any{
		"authType": "apikey",
		"apiKey":   apiKey,
	}, remember)
}

func (a *Account) login(ctx context.Context, data map[string]any, remember bool) (*domain.Credentials, error) {
	res, err := a.client.Call(ctx, endpointAuth, "POST", data)
	if err != nil {
		return nil, err
	}

	var out dto.AuthResult
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointAuth, err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%s: %w %q", endpointAuth, ErrMissingField, "token")
	}

	creds := &domain.Credentials{Token: out.Token, User: out.User, RememberMe: remember}
	if err := a.store.Save(ctx, a.profile, creds); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}
	return creds, nil
}

// Logout forgets the stored credentials.
func (a *Account) Logout(ctx context.Context) error {
	return a.store.Delete(ctx, a.profile)
}

// Current returns the stored credentials or domain.ErrCredentialsNotFound.
func (a *Account) Current(ctx context.Context) (*domain.Credentials, error) {
	return a.store.Load(ctx, a.profile)
}

// LoggedIn reports whether a token is stored.
func (a *Account) LoggedIn(ctx context.Context) bool {
	creds, err := a.store.Load(ctx, a.profile)
	return err == nil && creds.Token != ""
}

// CachedCredits returns the credit count remembered from the last login or refresh.
func (a *Account) CachedCredits(ctx context.Context) (int, bool) {
	creds, err := a.store.Load(ctx, a.profile)
	if err != nil || creds.User == nil {
		return 0, false
	}
	return creds.User.RemainingCredits, true
}

// RefreshCredits queries the backend and updates the cached profile.
func (a *Account) RefreshCredits(ctx context.Context) (int, error) {
	n, err := a.client.Credits(ctx)
	if err != nil {
		return 0, err
	}

	creds, err := a.store.Load(ctx, a.profile)
	if errors.Is(err, domain.ErrCredentialsNotFound) {
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds.User == nil {
		creds.User = &domain.UserProfile{}
	}
	creds.User.RemainingCredits = n
	if err := a.store.Save(ctx, a.profile, creds); err != nil {
		return n, fmt.Errorf("failed to store credentials: %w", err)
	}
	return n, nil
}
