package ports

import (
	"context"
	"time"
)

// SessionStore keeps the registry of live sessions. A session that is not in
// the store is revoked even if its token still verifies.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeAllForUser(ctx context.Context, userID string) (int, error)
}
