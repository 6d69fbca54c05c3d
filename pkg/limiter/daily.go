package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyLimiter tracks per-user submit-response usage in Redis.
// A nil Redis client disables limiting entirely; infra outages degrade to
// allow rather than block interviews.
type DailyLimiter struct {
	rdb   *redis.Client
	limit int
}

type Usage struct {
	Limit      int
	Used       int
	ResetAfter time.Time
}

func NewDailyLimiter(rdb *redis.Client, limit int) *DailyLimiter {
	return &DailyLimiter{rdb: rdb, limit: limit}
}

// Check returns current usage and whether the user is over budget.
func (l *DailyLimiter) Check(ctx context.Context, userID string) (*Usage, bool, error) {
	if l.rdb == nil || l.limit <= 0 {
		return nil, true, nil
	}

	used, err := l.rdb.Get(ctx, l.key(userID)).Int()
	if err != nil && err != redis.Nil {
		return nil, true, err // degrade open
	}

	usage := &Usage{
		Limit:      l.limit,
		Used:       used,
		ResetAfter: nextMidnightUTC(),
	}
	return usage, used < l.limit, nil
}

// Increment records one scored response for the user.
func (l *DailyLimiter) Increment(ctx context.Context, userID string) error {
	if l.rdb == nil || l.limit <= 0 {
		return nil
	}

	key := l.key(userID)
	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, nextMidnightUTC())
	_, err := pipe.Exec(ctx)
	return err
}

func (l *DailyLimiter) key(userID string) string {
	return fmt.Sprintf("usage:%s:%s", userID, time.Now().UTC().Format("2006-01-02"))
}

func nextMidnightUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
