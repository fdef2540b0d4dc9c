package v1

import (
	"time"

	"github.com/google/uuid"
)

// SetPositionRequest is the drag-to-reposition payload.
// @Description Manual vehicle position override
type SetPositionRequest struct {
	Lat        float64 `json:"lat" validate:"required,latitude"`
	Lng        float64 `json:"lng" validate:"required,longitude"`
	IncidentID string  `json:"incident_id,omitempty"`
	Source     string  `json:"source,omitempty" validate:"omitempty,oneof=manual"`
}

// UnitMarkerResponse is one rendered vehicle marker.
// @Description Resolved vehicle marker
type UnitMarkerResponse struct {
	VehicleID  string  `json:"vehicle_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Origin     string  `json:"origin"`
	HasGPS     bool    `json:"has_gps"`
	IncidentID string  `json:"incident_id,omitempty"`
	Icon       string  `json:"icon"`
}

// PositionsResponse is the full current render state.
// @Description Full marker list from a fresh snapshot
type PositionsResponse struct {
	SnapshotID uuid.UUID            `json:"snapshot_id"`
	At         time.Time            `json:"at"`
	Units      []UnitMarkerResponse `json:"units"`
}

// ProximityUnitResponse is one ranked nearby candidate. DistanceKm is null
// for alerted-text fallback matches.
// @Description Ranked nearby unit
type ProximityUnitResponse struct {
	UnitID             string   `json:"unitId"`
	DistanceKm         *float64 `json:"distanceKm"`
	Group              string   `json:"group"`
	Assigned           bool     `json:"assigned"`
	AssignedIncidentID string   `json:"assignedCardId,omitempty"`
	Fallback           string   `json:"fallback,omitempty"`
}

// ProximityResponse mirrors the external nearby contract.
// @Description Nearby query result
type ProximityResponse struct {
	OK       bool                    `json:"ok"`
	Error    string                  `json:"error,omitempty"`
	Center   *LatLngResponse         `json:"center,omitempty"`
	RadiusKm *float64                `json:"radiusKm,omitempty"`
	Units    []ProximityUnitResponse `json:"units"`
}

// LatLngResponse is a coordinate pair.
type LatLngResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
