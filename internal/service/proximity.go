package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/leitstand/unitmap/internal/geo"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrIncidentNotFound is returned when the nearby query names an unknown
// card.
var ErrIncidentNotFound = errors.New("incident not found")

// ProximityService answers "which units are close to this incident". Each
// call fetches its own snapshot; it shares no state with the reconciliation
// loop.
type ProximityService interface {
	Nearby(ctx context.Context, incidentID string, radiusKm *float64) (*models.ProximityResult, error)
}

type proximityService struct {
	roster    RosterRepository
	board     BoardRepository
	gps       GpsRepository
	overrides OverrideRepository
	logger    *logrus.Logger
}

func NewProximityService(roster RosterRepository, board BoardRepository, gps GpsRepository, overrides OverrideRepository, logger *logrus.Logger) ProximityService {
	return &proximityService{
		roster:    roster,
		board:     board,
		gps:       gps,
		overrides: overrides,
		logger:    logger,
	}
}

// Nearby ranks all vehicles by geodesic distance to the incident. Without a
// caller-supplied radius it ranks rather than filters. When the
// coordinate-driven search finds nothing, the card's alerted text is used
// as a token-matching fallback; those hits carry a nil distance.
func (s *proximityService) Nearby(ctx context.Context, incidentID string, radiusKm *float64) (*models.ProximityResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "proximity",
		"method":      "Nearby",
		"incident_id": incidentID,
	})

	incident, err := s.board.GetIncident(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Nearby query for unknown incident")
		return nil, fmt.Errorf("service: %w", ErrIncidentNotFound)
	}
	if !incident.HasCoordinates() {
		log.Info("Nearby query on incident without coordinates")
		return &models.ProximityResult{
			OK:    false,
			Error: "card has no coordinates",
			Units: []models.ProximityUnit{},
		}, nil
	}
	center := models.LatLng{Lat: *incident.Latitude, Lng: *incident.Longitude}

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

	units := make([]models.ProximityUnit, 0, len(vehicles))
	for _, v := range vehicles {
		pos, ok := candidatePosition(v, idx)
		if !ok {
			continue
		}
		d := geo.DistanceKm(center, pos)
		if radiusKm != nil && d > *radiusKm {
			continue
		}
		unit := models.ProximityUnit{
			UnitID:     v.ID,
			DistanceKm: &d,
			Group:      v.Home,
		}
		if inc, assigned := idx.incidentByVehicle[v.ID]; assigned {
			unit.Assigned = true
			unit.AssignedIncidentID = inc.ID
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool {
		return *units[i].DistanceKm < *units[j].DistanceKm
	})
	for i := range units {
		rounded := math.Round(*units[i].DistanceKm*10) / 10
		units[i].DistanceKm = &rounded
	}

	if len(units) == 0 && incident.Alerted != "" {
		units = append(units, s.alertedFallback(incident.Alerted, vehicles, idx)...)
	}

	log.WithField("found", len(units)).Debug("Nearby query completed")

	return &models.ProximityResult{
		OK:       true,
		Center:   &center,
		RadiusKm: radiusKm,
		Units:    units,
	}, nil
}

// alertedFallback matches the card's alerted-units text against the roster.
// Tokens split on ";", "," and "/" and must equal the normalized label or
// home location exactly; a nil distance marks "matched by roster text, not
// measured".
func (s *proximityService) alertedFallback(alerted string, vehicles []*models.Vehicle, idx *sourceIndex) []models.ProximityUnit {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(alerted, func(r rune) bool {
		return r == ';' || r == ',' || r == '/'
	}) {
		if n := NormalizeUnitName(tok); n != "" {
			tokens[n] = struct{}{}
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var units []models.ProximityUnit
	for _, v := range vehicles {
		if _, assigned := idx.incidentByVehicle[v.ID]; assigned {
			continue
		}
		_, labelHit := tokens[NormalizeUnitName(v.Label)]
		_, homeHit := tokens[NormalizeUnitName(v.Home)]
		if !labelHit && !homeHit {
			continue
		}
		units = append(units, models.ProximityUnit{
			UnitID:   v.ID,
			Group:    v.Home,
			Fallback: "alerted",
		})
	}
	return units
}

// candidatePosition picks the position a candidate is measured from: GPS,
// then manual override, then the assigned incident's own coordinates.
func candidatePosition(v *models.Vehicle, idx *sourceIndex) (models.LatLng, bool) {
	if s, ok := idx.gpsFor(v); ok {
		return models.LatLng{Lat: s.Lat, Lng: s.Lng}, true
	}
	if ov, ok := idx.manualByVehicle[v.ID]; ok {
		return models.LatLng{Lat: ov.Lat, Lng: ov.Lng}, true
	}
	if inc, ok := idx.incidentByVehicle[v.ID]; ok {
		if p, ok := idx.incidentPos[inc.ID]; ok {
			return p, true
		}
	}
	return models.LatLng{}, false
}
