package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

const notifyQueueKey = "reports:notify"

// NotifyQueue is a FIFO of partner notifications: LPUSH in, BRPOP out.
type NotifyQueue struct {
	client *redis.Client
	key    string
}

func NewNotifyQueue(client *redis.Client, key string) *NotifyQueue {
	if key == "" {
		key = notifyQueueKey
	}
	return &NotifyQueue{client: client, key: key}
}

func (q *NotifyQueue) Enqueue(ctx context.Context, n domain.ReportNotification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

// BRPop blocks up to timeout and returns e.ErrQueueEmpty when nothing arrived.
func (q *NotifyQueue) BRPop(ctx context.Context, timeout time.Duration) (domain.ReportNotification, error) {
	var n domain.ReportNotification

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return n, e.ErrQueueEmpty
		}
		return n, err
	}
	if len(res) < 2 {
		return n, e.ErrQueueEmpty
	}
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return n, err
	}
	return n, nil
}

func (q *NotifyQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
