package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/studyplan/internal/config"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// RedisNotifier publishes one message per event on a pub/sub channel.
type RedisNotifier struct {
	rdb     redisPublisher
	closer  func() error
	channel string
}

// NewRedisNotifier connects to Redis and checks the connection with PING.
func NewRedisNotifier(ctx context.Context, cfg config.RedisConfig) (*RedisNotifier, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &RedisNotifier{
		rdb:     rdb,
		closer:  rdb.Close,
		channel: cfg.Channel,
	}, nil
}

func (n *RedisNotifier) Publish(ctx context.Context, changes []plan.Change) error {
	for _, event := range NewEvents(changes) {
		raw, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("json.Marshal(event) > %w", err)
		}
		if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
			return fmt.Errorf("redis publish %s: %w", n.channel, err)
		}
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	if n.closer == nil {
		return nil
	}
	return n.closer()
}
