package main

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Publisher forwards broadcasts to observers outside this process.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisFanout publishes broadcasts on a redis channel per diagram.
type RedisFanout struct {
	rdb *redis.Client
}

func NewRedisFanout(rdb *redis.Client) *RedisFanout {
	return &RedisFanout{rdb: rdb}
}

func (f *RedisFanout) Publish(ctx context.Context, channel string, payload []byte) error {
	return f.rdb.Publish(ctx, channel, payload).Err()
}

func channelFor(diagramId string) string {
	return "diagram-" + diagramId
}
