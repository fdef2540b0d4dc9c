package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leitstand/unitmap/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// renderQueueKey is the delivery queue consumed by the webhook worker.
	renderQueueKey = "render_diffs"
	// renderStateKey mirrors the latest full marker list so a late-joining
	// renderer can catch up without replaying diffs.
	renderStateKey = "render:state"
)

// RenderPublisher hands one tick's diff to the rendering collaborator.
type RenderPublisher interface {
	Publish(ctx context.Context, diff models.RenderDiff, state []models.UnitMarker) error
}

// RedisRenderPublisher queues diffs in Redis and keeps the latest-state key
// up to date.
type RedisRenderPublisher struct {
	redisClient *redis.Client
}

func NewRedisRenderPublisher(client *redis.Client) *RedisRenderPublisher {
	return &RedisRenderPublisher{redisClient: client}
}

func (p *RedisRenderPublisher) Publish(ctx context.Context, diff models.RenderDiff, state []models.UnitMarker) error {
	payload, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("failed to marshal render diff: %w", err)
	}
	if err := p.redisClient.LPush(ctx, renderQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to queue render diff: %w", err)
	}

	full, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal render state: %w", err)
	}
	if err := p.redisClient.Set(ctx, renderStateKey, full, 0).Err(); err != nil {
		return fmt.Errorf("failed to store render state: %w", err)
	}
	return nil
}
