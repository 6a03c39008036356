package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether a token was revoked by the identity service
type RevocationList interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

// RedisRevocationList reads the revocation keys the identity service writes:
// one key per revoked token ID, and one per user holding the unix time
// before which all of that user's tokens are invalid.
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list on client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client, keyPrefix: "token:revoked:"}
}

func (l *RedisRevocationList) jtiKey(jti string) string { return l.keyPrefix + "jti:" + jti }

func (l *RedisRevocationList) userKey(userID string) string { return l.keyPrefix + "user:" + userID }

// IsRevoked checks the token ID and then the user's revocation time
func (l *RedisRevocationList) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID != "" {
		n, err := l.client.Exists(ctx, l.jtiKey(claims.ID)).Result()
		if err != nil {
			return false, fmt.Errorf("check revoked token: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}

	raw, err := l.client.Get(ctx, l.userKey(claims.UserID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked user: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user revocation time %q: %w", raw, err)
	}
	if claims.IssuedAt == nil {
		return true, nil
	}
	return claims.IssuedAt.Unix() <= revokedAt, nil
}

// RevokeToken marks a token ID as revoked until ttl elapses
func (l *RedisRevocationList) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	return l.client.Set(ctx, l.jtiKey(jti), "1", ttl).Err()
}

// RevokeUser invalidates every token issued to userID up to now
func (l *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	return l.client.Set(ctx, l.userKey(userID), time.Now().Unix(), ttl).Err()
}

var _ RevocationList = (*RedisRevocationList)(nil)
