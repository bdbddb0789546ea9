package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/pagewizard/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is how long credentials saved without "remember me" live.
const DefaultSessionTTL = 12 * time.Hour

// Store implements ports.CredentialStore using Redis.
type Store struct {
	client     *backend.Client
	prefix     string
	ttl        time.Duration
	sessionTTL time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored credentials. Zero keeps them until logout.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithSessionTTL sets the expiration of credentials saved without RememberMe.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.sessionTTL = ttl
	}
}

// WithPrefix sets the key prefix for stored credentials.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:     client,
		prefix:     "pagewizard:credentials:",
		sessionTTL: DefaultSessionTTL,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(profile string) string {
	return s.prefix + profile
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the credentials to Redis.
func (s *Store) Save(ctx context.Context, profile string, creds *domain.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	ttl := s.expiry(creds)
	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(profile), data, ttl)

	// Index score is the expiry time; profiles without TTL never expire.
	score := float64(time.Now().Add(ttl).Unix())
	if ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: profile,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

func (s *Store) expiry(creds *domain.Credentials) time.Duration {
	if creds.RememberMe || s.sessionTTL <= 0 {
		return s.ttl
	}
	if s.ttl > 0 && s.ttl < s.sessionTTL {
		return s.ttl
	}
	return s.sessionTTL
}

// Load retrieves the credentials from Redis.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Credentials, error) {
	val, err := s.client.Get(ctx, s.key(profile)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal([]byte(val), &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return &creds, nil
}

// Delete removes the credentials.
func (s *Store) Delete(ctx context.Context, profile string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(profile))
	pipe.ZRem(ctx, s.indexKey(), profile)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored profiles, lazily pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired profiles: %w", err)
	}

	profiles, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// Ping checks connectivity to the Redis server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
