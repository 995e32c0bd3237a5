// utils/session.go
package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"freshmart/apperr"
)

// SessionStore implements logout-everywhere for admin accounts. Revoking a
// principal records the revocation time in Redis; every token issued before
// that instant is rejected on its next use, wherever the portal is open.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a SessionStore backed by rdb.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Revoke invalidates every token issued to uid up to now. The marker outlives
// the longest token lifetime, after which the tokens have expired anyway.
func (s *SessionStore) Revoke(ctx context.Context, uid string) error {
	err := s.rdb.Set(ctx, "revoked:"+uid, time.Now().Unix(), 25*time.Hour).Err()
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Revoked reports whether a token issued at issuedAt for uid has been
// invalidated by a later Revoke call.
func (s *SessionStore) Revoked(ctx context.Context, uid string, issuedAt int64) (bool, error) {
	val, err := s.rdb.Get(ctx, "revoked:"+uid).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal(err)
	}
	revokedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return tokenRevoked(issuedAt, revokedAt), nil
}

// tokenRevoked compares the second-granularity timestamps. The comparison is
// strict so a token issued in the same second as a logout still works: that
// token is the fresh login that followed the logout, not a stale session.
func tokenRevoked(issuedAt, revokedAt int64) bool {
	return issuedAt < revokedAt
}
