package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
	"github.com/sirupsen/logrus"
)

// Loop is the periodic reconciliation driver: every tick it re-fetches all
// sources through the position service, diffs the result against the
// previous render state and publishes the changes. One Loop is constructed
// per active map view and owns its timer; there are no package-level
// timers or caches.
type Loop struct {
	positions   service.PositionService
	publisher   RenderPublisher
	logger      *logrus.Logger
	interval    time.Duration
	tickTimeout time.Duration

	// previous render state, only touched by the loop goroutine.
	prev map[string]models.UnitMarker

	stopChan chan struct{}
	running  bool
}

func NewLoop(positions service.PositionService, publisher RenderPublisher, logger *logrus.Logger, interval, tickTimeout time.Duration) *Loop {
	return &Loop{
		positions:   positions,
		publisher:   publisher,
		logger:      logger,
		interval:    interval,
		tickTimeout: tickTimeout,
		prev:        make(map[string]models.UnitMarker),
		stopChan:    make(chan struct{}),
	}
}

// Start launches the loop goroutine. Ticks run synchronously inside it and
// time.Ticker drops missed firings, so a slow fetch coalesces ticks instead
// of queueing them.
func (l *Loop) Start(ctx context.Context) {
	if l.running {
		return
	}
	l.running = true
	l.logger.WithField("interval", l.interval).Info("Starting reconciliation loop")

	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		l.runTick(ctx)

		for {
			select {
			case <-ctx.Done():
				l.logger.Info("Reconciliation loop stopping: context cancelled")
				return
			case <-l.stopChan:
				l.logger.Info("Reconciliation loop stopping")
				return
			case <-ticker.C:
				l.runTick(ctx)
			}
		}
	}()
}

// Stop ends the loop. Safe to call once after Start; no callbacks fire
// afterwards.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	close(l.stopChan)
}

// runTick performs one full re-fetch + re-resolve + re-classify pass. A
// failed fetch abandons the tick: the previous render state stays in place
// and the next timer firing retries. Nothing here is fatal.
func (l *Loop) runTick(ctx context.Context) {
	tickID := uuid.New()
	log := l.logger.WithFields(logrus.Fields{
		"component": "reconcile",
		"tick_id":   tickID,
	})

	tickCtx, cancel := context.WithTimeout(ctx, l.tickTimeout)
	defer cancel()

	markers, err := l.positions.Snapshot(tickCtx)
	if err != nil {
		log.WithError(err).Warn("Tick abandoned, keeping previous render state")
		return
	}

	diff := l.diff(tickID, markers)
	if len(diff.Changed) == 0 && len(diff.Removed) == 0 {
		log.Debug("Tick completed, no changes")
		return
	}

	if err := l.publisher.Publish(tickCtx, diff, markers); err != nil {
		// The tick is all-or-nothing from the renderer's point of view:
		// without a published diff the previous state must stay current.
		log.WithError(err).Warn("Failed to publish render diff, keeping previous render state")
		return
	}

	next := make(map[string]models.UnitMarker, len(markers))
	for _, m := range markers {
		next[m.VehicleID] = m
	}
	l.prev = next

	log.WithFields(logrus.Fields{
		"changed": len(diff.Changed),
		"removed": len(diff.Removed),
	}).Debug("Tick completed")
}

// diff compares the fresh marker set with the previous one and emits new or
// moved markers plus explicit removals for vehicles that left the relevant
// set.
func (l *Loop) diff(tickID uuid.UUID, markers []models.UnitMarker) models.RenderDiff {
	d := models.RenderDiff{TickID: tickID, At: time.Now().UTC()}

	seen := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		seen[m.VehicleID] = struct{}{}
		if old, ok := l.prev[m.VehicleID]; !ok || old != m {
			d.Changed = append(d.Changed, m)
		}
	}
	for vid := range l.prev {
		if _, ok := seen[vid]; !ok {
			d.Removed = append(d.Removed, vid)
		}
	}
	return d
}
