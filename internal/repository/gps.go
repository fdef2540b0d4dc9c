package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
	"github.com/redis/go-redis/v9"
)

// gpsSnapshotKey is written by the GPS feed ingester with the latest full
// sample list.
const gpsSnapshotKey = "gps:snapshot"

type GpsRepository struct {
	redisClient *redis.Client
}

func NewGpsRepository(client *redis.Client) service.GpsRepository {
	return &GpsRepository{redisClient: client}
}

// Snapshot returns the latest GPS sample list. A missing key means the feed
// has not reported yet and is an empty snapshot, not an error.
func (r *GpsRepository) Snapshot(ctx context.Context) ([]models.GpsSample, error) {
	val, err := r.redisClient.Get(ctx, gpsSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.GpsSample{}, nil
		}
		return nil, fmt.Errorf("failed to read gps snapshot: %w", err)
	}

	var samples []models.GpsSample
	if err := json.Unmarshal(val, &samples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gps snapshot: %w", err)
	}
	return samples, nil
}
