package models

import (
	"time"

	"github.com/google/uuid"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GpsSample is one entry of the latest GPS snapshot. Name is free text from
// the feed and only matches the roster after normalization.
type GpsSample struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// ManualOverride is a drag-to-reposition marker position. It persists until
// the assignment service clears it.
type ManualOverride struct {
	VehicleID  string    `json:"vehicle_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	IncidentID string    `json:"incident_id,omitempty"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PositionOrigin tags which source produced a resolved position.
type PositionOrigin string

const (
	OriginGPS    PositionOrigin = "gps"
	OriginManual PositionOrigin = "manual"
	OriginRing   PositionOrigin = "ring-fallback"
	OriginNone   PositionOrigin = "none"
)

// IconState drives marker icon selection on the map.
type IconState string

const (
	IconUnassigned IconState = "unassigned"
	IconStationary IconState = "stationary"
	IconEnRoute    IconState = "en-route"
)

// UnitMarker is the resolved render state of one vehicle for one tick.
// Recomputed every tick, never mutated in place.
type UnitMarker struct {
	VehicleID  string         `json:"vehicle_id"`
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	Origin     PositionOrigin `json:"origin"`
	HasGPS     bool           `json:"has_gps"`
	IncidentID string         `json:"incident_id,omitempty"`
	Icon       IconState      `json:"icon"`
}

// RenderDiff is what one reconciliation tick emits to the rendering
// collaborator: markers that appeared or changed, plus explicit removals.
type RenderDiff struct {
	TickID  uuid.UUID    `json:"tick_id"`
	At      time.Time    `json:"at"`
	Changed []UnitMarker `json:"changed"`
	Removed []string     `json:"removed"`
}

// ProximityUnit is one ranked candidate of a nearby-unit search. DistanceKm
// is nil when the unit matched via the alerted-text fallback and no measured
// position exists.
type ProximityUnit struct {
	UnitID             string   `json:"unitId"`
	DistanceKm         *float64 `json:"distanceKm"`
	Group              string   `json:"group"`
	Assigned           bool     `json:"assigned"`
	AssignedIncidentID string   `json:"assignedCardId,omitempty"`
	Fallback           string   `json:"fallback,omitempty"`
}

// ProximityResult is the external response contract of the nearby query.
// OK is false when the incident has no coordinates; that is a graceful
// "cannot search" state, not an error.
type ProximityResult struct {
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Center   *LatLng         `json:"center,omitempty"`
	RadiusKm *float64        `json:"radiusKm,omitempty"`
	Units    []ProximityUnit `json:"units"`
}
