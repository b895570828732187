package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultCap int64 = 50

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Push(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]Notification, error)
}

// redisRepository keeps one list per user, newest first, trimmed to limit.
type redisRepository struct {
	rdb   redis.Cmdable
	limit int64
}

func NewRedisRepository(rdb redis.Cmdable, limit int64) Repository {
	if limit <= 0 {
		limit = defaultCap
	}
	return &redisRepository{rdb: rdb, limit: limit}
}

func key(userID string) string { return "notifications:" + userID }

func (r *redisRepository) Push(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key(n.UserID), payload)
		pipe.LTrim(ctx, key(n.UserID), 0, r.limit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notification for %s: %w", n.UserID, err)
	}
	return nil
}

func (r *redisRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}

	raws, err := r.rdb.LRange(ctx, key(userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", userID, err)
	}

	out := make([]Notification, 0, len(raws))
	for _, raw := range raws {
		var n Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
