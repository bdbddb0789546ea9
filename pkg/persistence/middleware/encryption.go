package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// envelopePrefix marks a token field that carries the encrypted credentials.
const envelopePrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.CredentialStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts credentials using AES-GCM.
// The underlying store only ever sees an opaque envelope.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.CredentialStore) ports.CredentialStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, profile string, creds *domain.Credentials) error {
	plainText, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	ciphertext, err := seal(m.config.ActiveKey, plainText, profile)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	// Only the remember-me flag stays readable; stores use it to pick an expiry.
	envelope := &domain.Credentials{
		Token:      envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext),
		RememberMe: creds.RememberMe,
	}

	return m.next.Save(ctx, profile, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, profile string) (*domain.Credentials, error) {
	envelope, err := m.next.Load(ctx, profile)
	if err != nil {
		return nil, err
	}

	encoded, ok := strings.CutPrefix(envelope.Token, envelopePrefix)
	if !ok {
		// Fail secure: plaintext credentials are not accepted once encryption is on.
		return nil, errors.New("credentials are missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := open(append([][]byte{m.config.ActiveKey}, m.config.FallbackKeys...), ciphertext, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(plainText, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted credentials: %w", err)
	}

	return &creds, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, profile string) error {
	return m.next.Delete(ctx, profile)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return listThrough(ctx, m.next)
}

// ParseKey decodes a base64 (standard or URL) AES-256 key as found in environment variables.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if key, err := enc.DecodeString(s); err == nil {
			if len(key) != 32 {
				return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
			}
			return key, nil
		}
	}
	return nil, errors.New("key is not valid base64")
}

// The profile name is bound as additional data, so an envelope copied
// under another profile does not open.

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(key []byte, plaintext []byte, profile string) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, []byte(profile)), nil
}

// open tries the active key first, then each fallback key.
func open(keys [][]byte, sealed []byte, profile string) ([]byte, error) {
	for _, key := range keys {
		gcm, err := newGCM(key)
		if err != nil {
			continue
		}
		n := gcm.NonceSize()
		if len(sealed) < n {
			return nil, errors.New("ciphertext too short")
		}
		if plain, err := gcm.Open(nil, sealed[:n], sealed[n:], []byte(profile)); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}
