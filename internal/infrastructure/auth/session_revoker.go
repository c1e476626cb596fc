package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker invalidates session tokens before they expire
type SessionRevoker interface {
	// RevokeToken rejects one token by its JTI for ttl
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser rejects every token of the user issued up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revokeKeyPrefix = "quark:session:"

// RedisSessionRevoker stores revocations in Redis, shared across instances
type RedisSessionRevoker struct {
	client *redis.Client
}

// NewRedisSessionRevoker creates a revoker over an existing Redis client
func NewRedisSessionRevoker(client *redis.Client) *RedisSessionRevoker {
	return &RedisSessionRevoker{client: client}
}

func jtiKey(jti string) string     { return revokeKeyPrefix + "jti:" + jti }
func userKey(userID string) string { return revokeKeyPrefix + "user:" + userID }

// RevokeToken implements SessionRevoker
func (r *RedisSessionRevoker) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked implements SessionRevoker
func (r *RedisSessionRevoker) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// RevokeUser implements SessionRevoker
func (r *RedisSessionRevoker) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// IsUserRevoked implements SessionRevoker
func (r *RedisSessionRevoker) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked user: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation time: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ SessionRevoker = (*RedisSessionRevoker)(nil)

// InMemorySessionRevoker keeps revocations in process memory. Only suitable
// for a single instance.
type InMemorySessionRevoker struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> expiry
	users  map[string]time.Time // userID -> cutoff
	now    func() time.Time
}

// NewInMemorySessionRevoker creates an empty in-memory revoker
func NewInMemorySessionRevoker() *InMemorySessionRevoker {
	return &InMemorySessionRevoker{
		tokens: make(map[string]time.Time),
		users:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// RevokeToken implements SessionRevoker
func (r *InMemorySessionRevoker) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[jti] = r.now().Add(ttl)
	return nil
}

// IsTokenRevoked implements SessionRevoker
func (r *InMemorySessionRevoker) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.tokens[jti]
	if !ok {
		return false, nil
	}
	if r.now().After(exp) {
		delete(r.tokens, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser implements SessionRevoker
func (r *InMemorySessionRevoker) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = r.now()
	return nil
}

// IsUserRevoked implements SessionRevoker
func (r *InMemorySessionRevoker) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ SessionRevoker = (*InMemorySessionRevoker)(nil)
