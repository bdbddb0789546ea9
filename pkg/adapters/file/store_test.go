package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/pagewizard/pkg/adapters/file"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.CredentialStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewWithFs(afero.NewMemMapFs(), "creds")
	ports.RunCredentialStoreContract(t, store)
}

func TestFileStore_OsFs(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunCredentialStoreContract(t, store)
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := file.NewWithFs(fs, "creds")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "default", &domain.Credentials{Token: "one"}))
	require.NoError(t, store.Save(ctx, "default", &domain.Credentials{Token: "two"}))

	entries, err := afero.ReadDir(fs, "creds")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "default.json", entries[0].Name())

	data, err := afero.ReadFile(fs, filepath.Join("creds", "default.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token": "two"`)
}

func TestFileStore_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("creds", "bad.json"), []byte("{not json"), 0600))

	store := file.NewWithFs(fs, "creds")
	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestFileStore_EmptyProfile(t *testing.T) {
	store := file.NewWithFs(afero.NewMemMapFs(), "")
	assert.Error(t, store.Save(context.Background(), "", &domain.Credentials{}))
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
}
