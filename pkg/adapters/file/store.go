package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/spf13/afero"
)

// Store implements ports.CredentialStore on a filesystem.
// Each profile is stored as a JSON file in BasePath.
type Store struct {
	Fs       afero.Fs
	BasePath string
}

// New creates a Store on the OS filesystem.
// If basePath is empty, it defaults to ".pagewizard/credentials".
func New(basePath string) *Store {
	return NewWithFs(afero.NewOsFs(), basePath)
}

// NewWithFs creates a Store on the given filesystem (use afero.NewMemMapFs in tests).
func NewWithFs(fs afero.Fs, basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".pagewizard", "credentials")
	}
	return &Store{Fs: fs, BasePath: basePath}
}

func (s *Store) path(profile string) string {
	return filepath.Join(s.BasePath, profile+".json")
}

// Save persists the credentials atomically.
// It writes to a temporary file first, syncs it and then renames it over the destination.
func (s *Store) Save(ctx context.Context, profile string, creds *domain.Credentials) error {
	if profile == "" {
		return fmt.Errorf("profile cannot be empty")
	}

	if err := s.Fs.MkdirAll(s.BasePath, 0700); err != nil {
		return fmt.Errorf("failed to ensure credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := afero.TempFile(s.Fs, s.BasePath, "tmp-"+profile+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = s.Fs.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(profile)
	if exists, _ := afero.Exists(s.Fs, destPath); exists {
		// os.Rename refuses to overwrite on Windows.
		if err := s.Fs.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing credentials file for overwrite: %w", err)
		}
	}

	if err := s.Fs.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Load retrieves the credentials of a profile.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Credentials, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}

	data, err := afero.ReadFile(s.Fs, s.path(profile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return &creds, nil
}

// Delete removes the credentials file.
func (s *Store) Delete(ctx context.Context, profile string) error {
	if profile == "" {
		return fmt.Errorf("profile cannot be empty")
	}

	err := s.Fs.Remove(s.path(profile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete credentials file: %w", err)
	}

	return nil
}

// List returns all stored profiles.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.Fs, s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		profiles = append(profiles, strings.TrimSuffix(name, ".json"))
	}

	return profiles, nil
}
