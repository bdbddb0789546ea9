package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCredentialStoreContract runs a suite of tests to verify that a CredentialStore implementation
// adheres to the defined interface contract.
func RunCredentialStoreContract(t *testing.T, store CredentialStore) {
	ctx := context.Background()
	profile := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		creds := &domain.Credentials{
			Token: "tok-123",
			User:  &domain.UserProfile{UserID: "u1", RemainingCredits: 7},
		}

		err := store.Save(ctx, profile, creds)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "tok-123", loaded.Token)
		require.NotNil(t, loaded.User)
		assert.Equal(t, 7, loaded.User.RemainingCredits)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, &domain.Credentials{Token: "first"}))
		require.NoError(t, store.Save(ctx, profile, &domain.Credentials{Token: "second"}))

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Token)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+profile)
		assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, profile, &domain.Credentials{Token: "bye"}))

		err := store.Delete(ctx, profile)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, profile)
		assert.ErrorIs(t, err, domain.ErrCredentialsNotFound, "Load after Delete should return ErrCredentialsNotFound")

		assert.NoError(t, store.Delete(ctx, profile), "Deleting twice should be a no-op")
	})

	t.Run("Token Source", func(t *testing.T) {
		src := StoreTokenSource{Store: store, Profile: profile}
		require.NoError(t, store.Save(ctx, profile, &domain.Credentials{Token: "live"}))

		tok, err := src.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "live", tok)

		require.NoError(t, store.Delete(ctx, profile))
		tok, err = src.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)
	})

	if lister, ok := store.(CredentialLister); ok {
		t.Run("List", func(t *testing.T) {
			p1 := profile + "-1"
			p2 := profile + "-2"
			_ = store.Save(ctx, p1, &domain.Credentials{Token: "a"})
			_ = store.Save(ctx, p2, &domain.Credentials{Token: "b"})

			defer func() {
				_ = store.Delete(ctx, p1)
				_ = store.Delete(ctx, p2)
			}()

			profiles, err := lister.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, profiles, p1)
			assert.Contains(t, profiles, p2)
		})
	}
}
