package sessionRepo

import (
	"context"
	"time"

	"github.com/ghaniswara/algolove/pkg/redact"
	"github.com/go-redis/redis"
)

// ISessionRepo remembers sessions the upstream has rejected so later requests
// can fail fast. Keys hold a fingerprint, never the session id itself.
type ISessionRepo interface {
	MarkExpired(ctx context.Context, sessionID string) error
	IsExpired(ctx context.Context, sessionID string) (bool, error)
}

type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepo returns a registry over rdb. A nil rdb disables it: nothing
// is stored and no session is reported expired.
func NewSessionRepo(rdb *redis.Client, ttl time.Duration) ISessionRepo {
	return &SessionRepo{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *SessionRepo) MarkExpired(_ context.Context, sessionID string) error {
	if s.rdb == nil || sessionID == "" {
		return nil
	}

	return s.rdb.Set(expiredKey(sessionID), 1, s.ttl).Err()
}

func (s *SessionRepo) IsExpired(_ context.Context, sessionID string) (bool, error) {
	if s.rdb == nil || sessionID == "" {
		return false, nil
	}

	n, err := s.rdb.Exists(expiredKey(sessionID)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func expiredKey(sessionID string) string {
	return ":session:" + redact.Fingerprint(sessionID) + ":expired"
}
