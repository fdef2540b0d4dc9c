package reconcile

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/leitstand/unitmap/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Worker drains the render-diff queue and pushes each diff to the rendering
// collaborator's webhook endpoint. Delivery is best-effort with bounded
// retries; a dropped diff is recovered by the renderer reading the
// latest-state key.
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.RenderWebhookTimeout,
		},
	}
}

// Start launches the delivery goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting render delivery worker")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping render delivery worker")
				return
			default:
				result, err := w.redisClient.BRPop(ctx, 0, renderQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop render diff from queue")
					time.Sleep(w.cfg.RenderWebhookTimeout)
					continue
				}
				w.deliver(ctx, result[1])
			}
		}
	}()
}

func (w *Worker) deliver(ctx context.Context, payload string) {
	log := w.logger.WithField("component", "render-worker")

	if w.cfg.RenderWebhookURL == "" {
		log.Debug("No render webhook configured, diff stays in latest-state key only")
		return
	}

	delay := w.cfg.RenderWebhookBaseDelay
	for i := 0; i < w.cfg.RenderWebhookMaxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.RenderWebhookURL, bytes.NewBufferString(payload))
		if err != nil {
			log.WithError(err).Error("Failed to build render webhook request")
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if w.cfg.RenderWebhookSecret != "" {
			req.Header.Set("X-Webhook-Signature", signHMACSHA256(payload, w.cfg.RenderWebhookSecret))
		}

		resp, err := w.httpClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				log.Debug("Render diff delivered")
				return
			}
			log.Warnf("Render webhook returned status %d, retrying in %v", resp.StatusCode, delay)
		} else {
			log.WithError(err).Warnf("Render webhook failed, retrying in %v", delay)
		}
		time.Sleep(delay)
		delay *= 2
	}

	log.Errorf("Render diff dropped after %d attempts", w.cfg.RenderWebhookMaxRetries)
}

func signHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
