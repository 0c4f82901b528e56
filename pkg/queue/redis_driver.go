package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "cotizador:queue:jobs"
	redisDelayedKey = "cotizador:queue:delayed"

	popTimeout  = 5 * time.Second
	promoteTick = time.Second
)

// RedisDriver persists the queue in Redis so jobs survive restarts and
// can be shared between the server and standalone workers. Immediate
// jobs go through a list (LPUSH/BRPOP); delayed jobs wait in a sorted
// set scored by their run-at Unix timestamp.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver wraps an existing client, normally the one from pkg/cache,
// and starts the promotion loop for delayed jobs.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb}
	go d.promoteLoop()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue: redis push: %w", err)
	}
	return nil
}

// Pop blocks up to popTimeout waiting for a job. A nil, nil return means
// the wait timed out with nothing ready.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, popTimeout, redisQueueKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue: redis pop: %w", err)
	case len(res) < 2:
		return nil, nil
	}
	// BRPop returns [key, value].
	return []byte(res[1]), nil
}

// PushDelayed parks a payload in the delayed set until its time comes.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(context.Background(), redisDelayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue: redis push delayed: %w", err)
	}
	return nil
}

// promoteLoop moves due jobs from the delayed set onto the main list.
func (d *RedisDriver) promoteLoop() {
	ticker := time.NewTicker(promoteTick)
	defer ticker.Stop()

	for range ticker.C {
		d.promoteDue(context.Background())
	}
}

func (d *RedisDriver) promoteDue(ctx context.Context) {
	due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(time.Now().Unix(), 10),
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}

	pipe := d.rdb.TxPipeline()
	for _, payload := range due {
		pipe.ZRem(ctx, redisDelayedKey, payload)
		pipe.LPush(ctx, redisQueueKey, []byte(payload))
	}
	pipe.Exec(ctx) //nolint:errcheck
}
