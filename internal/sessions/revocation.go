package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used for token revocation (optional)
var revocationClient *redis.Client

// in-process fallback used when Redis is not configured
var (
	localMu      sync.Mutex
	localRevoked = map[string]time.Time{}
)

// SetRevocationClient configures the Redis client used for revocation checks.
// Safe to call with nil to fall back to the in-process list.
func SetRevocationClient(c *redis.Client) {
	revocationClient = c
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:access:" + hex.EncodeToString(sum[:])
}

// RevokeAccessToken marks token as unusable until ttl elapses.
func RevokeAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := revocationKey(token)
	if revocationClient == nil {
		now := time.Now()
		localMu.Lock()
		for k, exp := range localRevoked {
			if now.After(exp) {
				delete(localRevoked, k)
			}
		}
		localRevoked[key] = now.Add(ttl)
		localMu.Unlock()
		return nil
	}
	return revocationClient.Set(ctx, key, "1", ttl).Err()
}

// IsAccessTokenRevoked returns true when the token was revoked and has not expired yet.
func IsAccessTokenRevoked(ctx context.Context, token string) (bool, error) {
	key := revocationKey(token)
	if revocationClient == nil {
		localMu.Lock()
		defer localMu.Unlock()
		exp, ok := localRevoked[key]
		if !ok {
			return false, nil
		}
		if time.Now().After(exp) {
			delete(localRevoked, key)
			return false, nil
		}
		return true, nil
	}
	exists, err := revocationClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
