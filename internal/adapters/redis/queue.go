package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"partprice/internal/adapters/observability"
	"partprice/internal/domain"
)

const DefaultKey = "partprice:enrich"

// Queue is a FIFO list: LPUSH on submit, BRPOP on consume.
type Queue struct {
	c   *redis.Client
	key string
}

func New(addr, pass string, db int, key string) *Queue {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewFromClient(c *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{c: c, key: key}
}

func (q *Queue) Ping(ctx context.Context) error { return q.c.Ping(ctx).Err() }

func (q *Queue) Close() error { return q.c.Close() }

func (q *Queue) Push(ctx context.Context, p domain.Part) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := q.c.LPush(ctx, q.key, b).Err(); err != nil {
		observability.ObserveQueue("redis", "error")
		return fmt.Errorf("lpush %s: %w", q.key, err)
	}
	observability.ObserveQueue("redis", "push")
	return nil
}

func (q *Queue) Pop(ctx context.Context, wait time.Duration) (domain.Part, bool, error) {
	res, err := q.c.BRPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveQueue("redis", "empty")
		return domain.Part{}, false, nil
	}
	if err != nil {
		if ctx.Err() == nil {
			observability.ObserveQueue("redis", "error")
		}
		return domain.Part{}, false, err
	}
	observability.ObserveQueue("redis", "pop")

	// res = [key, value]
	var p domain.Part
	if err := json.Unmarshal([]byte(res[1]), &p); err != nil {
		return domain.Part{}, false, fmt.Errorf("decode queued part: %w", err)
	}
	return p, true, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.c.LLen(ctx, q.key).Result()
}
