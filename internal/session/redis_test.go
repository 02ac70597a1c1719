package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestRedisRevocations(t *testing.T) {
	ctx := context.Background()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	r := NewRedisRevocations(client)

	if err := r.Revoke(ctx, "abc", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := r.Revoke(ctx, "expired", 0); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if !m.Exists("blacklist:abc") {
		t.Error("Expected blacklist:abc key")
	}
	if ttl := m.TTL("blacklist:abc"); ttl != time.Minute {
		t.Errorf("Expected 1m ttl, got %s", ttl)
	}
	if m.Exists("blacklist:expired") {
		t.Error("Tokens without ttl left must not be stored")
	}

	if revoked, err := r.IsRevoked(ctx, "abc"); err != nil || !revoked {
		t.Errorf("Expected abc to be revoked, got %v %v", revoked, err)
	}
	if revoked, _ := r.IsRevoked(ctx, "other"); revoked {
		t.Error("Unrevoked token reported as revoked")
	}

	m.FastForward(2 * time.Minute)
	if revoked, _ := r.IsRevoked(ctx, "abc"); revoked {
		t.Error("Expected revocation to expire with the token")
	}
}

func TestRedisRevocationsUnavailable(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	defer client.Close()

	r := NewRedisRevocations(client)
	m.Close()

	if _, err := r.IsRevoked(context.Background(), "abc"); err == nil {
		t.Error("Expected an error when redis is down")
	}
}
