package service

import (
	"context"
	"fmt"

	"github.com/leitstand/unitmap/internal/models"
	"github.com/sirupsen/logrus"
)

// RosterRepository reads the vehicle roster owned by the fleet service.
type RosterRepository interface {
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
}

// BoardRepository reads the incident board. Only incidents from the active
// columns (neu, in-bearbeitung) are relevant to the map.
type BoardRepository interface {
	ListActiveIncidents(ctx context.Context) ([]*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
}

// GpsRepository reads the latest snapshot written by the GPS feed ingester.
// Staleness handling is the ingester's job; the snapshot is authoritative
// for the vehicles it names.
type GpsRepository interface {
	Snapshot(ctx context.Context) ([]models.GpsSample, error)
}

// OverrideRepository stores manual drag-to-reposition overrides.
type OverrideRepository interface {
	List(ctx context.Context) ([]models.ManualOverride, error)
	Set(ctx context.Context, ov models.ManualOverride) error
	Clear(ctx context.Context, vehicleID string) error
}

// PositionService resolves one authoritative position and icon state per
// vehicle from the disagreeing sources.
type PositionService interface {
	Snapshot(ctx context.Context) ([]models.UnitMarker, error)
	SetManualPosition(ctx context.Context, ov models.ManualOverride) error
	ClearManualPosition(ctx context.Context, vehicleID string) error
}

type positionService struct {
	roster    RosterRepository
	board     BoardRepository
	gps       GpsRepository
	overrides OverrideRepository
	logger    *logrus.Logger
}

func NewPositionService(roster RosterRepository, board BoardRepository, gps GpsRepository, overrides OverrideRepository, logger *logrus.Logger) PositionService {
	return &positionService{
		roster:    roster,
		board:     board,
		gps:       gps,
		overrides: overrides,
		logger:    logger,
	}
}

// Snapshot fetches all four sources, rebuilds the lookup index and resolves
// every vehicle. Any fetch failure fails the whole snapshot; the caller
// (the reconciliation loop) keeps its previous render state in that case.
func (s *positionService) Snapshot(ctx context.Context) ([]models.UnitMarker, error) {
	vehicles, err := s.roster.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch roster: %w", err)
	}
	incidents, err := s.board.ListActiveIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch board: %w", err)
	}
	samples, err := s.gps.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch gps snapshot: %w", err)
	}
	overrides, err := s.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch overrides: %w", err)
	}

	idx := buildSourceIndex(incidents, samples, overrides)
	markers := resolveMarkers(vehicles, idx)

	s.logger.WithFields(logrus.Fields{
		"service":  "position",
		"vehicles": len(vehicles),
		"rendered": len(markers),
	}).Debug("Resolved unit positions")

	return markers, nil
}

// SetManualPosition persists a drag-to-reposition override. The optimistic
// marker move in the UI layer is reverted by the caller if this fails; no
// retries happen here.
func (s *positionService) SetManualPosition(ctx context.Context, ov models.ManualOverride) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "position",
		"method":     "SetManualPosition",
		"vehicle_id": ov.VehicleID,
	})

	if ov.Source == "" {
		ov.Source = "manual"
	}
	if err := s.overrides.Set(ctx, ov); err != nil {
		log.WithError(err).Error("Failed to persist manual override")
		return fmt.Errorf("service: could not set manual position: %w", err)
	}
	log.Info("Manual override saved")
	return nil
}

// ClearManualPosition removes an override. Clearing a vehicle that has no
// override is a no-op success.
func (s *positionService) ClearManualPosition(ctx context.Context, vehicleID string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "position",
		"method":     "ClearManualPosition",
		"vehicle_id": vehicleID,
	})

	if err := s.overrides.Clear(ctx, vehicleID); err != nil {
		log.WithError(err).Error("Failed to clear manual override")
		return fmt.Errorf("service: could not clear manual position: %w", err)
	}
	log.Info("Manual override cleared")
	return nil
}
