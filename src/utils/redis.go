package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter นับจำนวนครั้งต่อช่วงเวลาคงที่ใน Redis
type WindowCounter struct {
	client *redis.Client
	prefix string
	window time.Duration
}

func NewWindowCounter(client *redis.Client, prefix string, window time.Duration) *WindowCounter {
	return &WindowCounter{client: client, prefix: prefix, window: window}
}

// Hit increments the counter of the current window for key and returns the new count.
// Returns 0 when Redis is not available (development mode).
func (w *WindowCounter) Hit(ctx context.Context, key string, now time.Time) (int64, error) {
	if w == nil || w.client == nil {
		return 0, nil
	}

	bucket := now.Unix() / int64(w.window.Seconds())
	k := fmt.Sprintf("%s:%s:%d", w.prefix, key, bucket)

	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count %s: %v", k, err)
	}
	return incr.Val(), nil
}
