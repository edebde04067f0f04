package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRevokeAccessToken_Redis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	SetRevocationClient(client)
	defer SetRevocationClient(nil)

	ctx := context.Background()
	token := "access-token-1"
	require.NoError(t, RevokeAccessToken(ctx, token, 2*time.Second))

	ok, err := IsAccessTokenRevoked(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	// raw token is never used as a key
	require.False(t, m.Exists("revoked:access:"+token))

	// advance past TTL
	m.FastForward(3 * time.Second)

	ok2, err := IsAccessTokenRevoked(ctx, token)
	require.NoError(t, err)
	require.False(t, ok2)
}

func TestRevokeAccessToken_InProcessFallback(t *testing.T) {
	SetRevocationClient(nil)
	ctx := context.Background()

	require.NoError(t, RevokeAccessToken(ctx, "local-token", time.Minute))
	ok, err := IsAccessTokenRevoked(ctx, "local-token")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = IsAccessTokenRevoked(ctx, "other-token")
	require.NoError(t, err)
	require.False(t, ok)

	// non-positive ttl is a no-op
	require.NoError(t, RevokeAccessToken(ctx, "expired-token", 0))
	ok, _ = IsAccessTokenRevoked(ctx, "expired-token")
	require.False(t, ok)
}

func TestRevokeAccessToken_SweepsExpiredLocalEntries(t *testing.T) {
	SetRevocationClient(nil)
	ctx := context.Background()

	require.NoError(t, RevokeAccessToken(ctx, "short-lived", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	// the expired token is never looked up again; the next revocation drops it
	require.NoError(t, RevokeAccessToken(ctx, "fresh", time.Minute))

	localMu.Lock()
	_, stale := localRevoked[revocationKey("short-lived")]
	_, fresh := localRevoked[revocationKey("fresh")]
	localMu.Unlock()
	require.False(t, stale)
	require.True(t, fresh)
}
