package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_SaveExistsRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "s1", "u1", time.Hour); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	ok, err := store.Exists(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("expected session to exist, got ok=%v err=%v", ok, err)
	}

	if err := store.Revoke(ctx, "s1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := store.Exists(ctx, "s1"); ok {
		t.Fatalf("expected session to be gone")
	}
	if err := store.Revoke(ctx, "s1"); err != nil {
		t.Fatalf("revoking twice should be a no-op, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, "s1", "u1", time.Minute)
	mr.FastForward(2 * time.Minute)

	if ok, _ := store.Exists(ctx, "s1"); ok {
		t.Fatalf("expected session to expire")
	}
}

func TestSessionStore_RevokeAllForUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, "s1", "u1", time.Hour)
	_ = store.Save(ctx, "s2", "u1", time.Hour)
	_ = store.Save(ctx, "s3", "u2", time.Hour)

	n, err := store.RevokeAllForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 sessions revoked, got %d", n)
	}
	for _, id := range []string{"s1", "s2"} {
		if ok, _ := store.Exists(ctx, id); ok {
			t.Fatalf("session %s still live", id)
		}
	}
	if ok, _ := store.Exists(ctx, "s3"); !ok {
		t.Fatalf("other user's session must survive")
	}

	if n, _ := store.RevokeAllForUser(ctx, "nobody"); n != 0 {
		t.Fatalf("expected 0 for unknown user, got %d", n)
	}
}

func TestSessionStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.Exists(context.Background(), "s1"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
