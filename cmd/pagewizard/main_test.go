package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	rootCmd.SetContext(ctx)

	for _, args := range [][]string{
		{"--store", "memory"},
		{"--store", "redis", "--redis", "redis://" + mr.Addr() + "/0"},
		{"--store", "file", "--store-dir", t.TempDir()},
	} {
		require.NoError(t, rootCmd.ParseFlags(args))
		store, err := openStore(rootCmd)
		require.NoError(t, err, args)

		require.NoError(t, store.Save(ctx, "default", &domain.Credentials{Token: "tok",
			User: &domain.UserProfile{UserID: "u1", RemainingCredits: 2}}))
		creds, err := store.Load(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, "tok", creds.Token)
		assert.Empty(t, creds.User.UserID, "identifying fields are not stored")
	}

	require.NoError(t, rootCmd.ParseFlags([]string{"--store", "floppy"}))
	_, err := openStore(rootCmd)
	assert.ErrorContains(t, err, "unknown store")
}

func TestOpenStore_Encrypted(t *testing.T) {
	t.Setenv(envCredentialsKey, base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)))
	require.NoError(t, rootCmd.ParseFlags([]string{"--store", "memory"}))
	rootCmd.SetContext(context.Background())

	store, err := openStore(rootCmd)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "default", &domain.Credentials{Token: "secret"}))
	creds, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "secret", creds.Token)
}

func TestValidateAndGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, flow.DefaultSource(), 0o644))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Flow is valid!")

	out, err = execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entry: nowhere\nsteps: []\n"), 0o644))
	_, err = execute(t, "validate", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestCredits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "credits": 7})
	}))
	defer srv.Close()

	out, err := execute(t, "credits", "--backend", srv.URL, "--store", "memory")
	require.NoError(t, err)
	assert.Equal(t, "Credits: 7\n", out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pagewizard version")
}
