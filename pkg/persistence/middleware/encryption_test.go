package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/pagewizard/pkg/adapters/memory"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/persistence/middleware"
	"github.com/aretw0/pagewizard/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunCredentialStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secure := mw(underlying)

	ctx := context.Background()
	original := &domain.Credentials{
		Token: "my-secret-token",
		User:  &domain.UserProfile{Name: "Shop Owner", RemainingCredits: 12},
	}

	require.NoError(t, secure.Save(ctx, "default", original))

	stored, err := underlying.Load(ctx, "default")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Token, "enc:v1:"), "expected an envelope, got %q", stored.Token)
	assert.NotContains(t, stored.Token, "my-secret-token")
	assert.Nil(t, stored.User, "profile must not be stored in clear")

	loaded, err := secure.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-token", loaded.Token)
	require.NotNil(t, loaded.User)
	assert.Equal(t, 12, loaded.User.RemainingCredits)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	ctx := context.Background()

	require.NoError(t, secureOld.Save(ctx, "default", &domain.Credentials{Token: "encrypted-with-old-key"}))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "default")
	require.NoError(t, err, "Load with rotated key failed")
	assert.Equal(t, "encrypted-with-old-key", loaded.Token)

	loaded.Token = "encrypted-with-new-key"
	require.NoError(t, secureNew.Save(ctx, "default", loaded))

	_, err = secureOld.Load(ctx, "default")
	assert.Error(t, err, "Expected failure when loading new-key encryption with old-key middleware")
}

func TestEncryptionMiddleware_BoundToProfile(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "shop-a", &domain.Credentials{Token: "tok-a"}))
	envelope, err := underlying.Load(ctx, "shop-a")
	require.NoError(t, err)
	require.NoError(t, underlying.Save(ctx, "shop-b", envelope))

	_, err = secure.Load(ctx, "shop-b")
	assert.ErrorContains(t, err, "failed to decrypt")
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), "default", &domain.Credentials{Token: "plain"}))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(context.Background(), "default")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	got, err = middleware.ParseKey(base64.RawURLEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("too short")))
	assert.Error(t, err)

	_, err = middleware.ParseKey("!!not base64!!")
	assert.Error(t, err)
}

func TestPIIMiddleware_DropsIdentity(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying, middleware.NewPIIMiddleware())
	ctx := context.Background()

	creds := &domain.Credentials{
		Token: "tok",
		User:  &domain.UserProfile{UserID: "u-1", Name: "Hanako", RemainingCredits: 5},
	}
	require.NoError(t, store.Save(ctx, "default", creds))

	stored, err := underlying.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)
	assert.Empty(t, stored.User.UserID)
	assert.Empty(t, stored.User.Name)
	assert.Equal(t, 5, stored.User.RemainingCredits)

	// Caller's copy untouched
	assert.Equal(t, "Hanako", creds.User.Name)
}

func TestChain_ListThrough(t *testing.T) {
	store := middleware.Chain(memory.NewStore(),
		middleware.NewPIIMiddleware(),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a", &domain.Credentials{Token: "x"}))

	lister, ok := store.(ports.CredentialLister)
	require.True(t, ok)
	profiles, err := lister.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, profiles)
}
