package service

import (
	"sort"

	"github.com/leitstand/unitmap/internal/geo"
	"github.com/leitstand/unitmap/internal/models"
)

// Ring layout for assigned vehicles that have neither GPS nor a manual
// override: a fixed-radius ring around the incident, angularly spread so
// markers do not stack.
const (
	ringRadiusM = 10.0
	ringStepDeg = 50.0
)

// ringAllocator assigns ring angles deterministically within one
// reconciliation pass. Vehicles are sorted by id, so the same input set
// yields the same angles on every tick; only a membership change can
// reshuffle them (accepted quirk, markers may jump around the ring).
type ringAllocator struct {
	angleByVehicle map[string]float64
}

func newRingAllocator(vehicleIDsByIncident map[string][]string) *ringAllocator {
	a := &ringAllocator{angleByVehicle: make(map[string]float64)}
	for _, ids := range vehicleIDsByIncident {
		sorted := append([]string(nil), ids...)
		sort.Strings(sorted)
		for i, vid := range sorted {
			a.angleByVehicle[vid] = float64(i+1) * ringStepDeg
		}
	}
	return a
}

// position returns the ring slot for a vehicle around the incident center.
func (a *ringAllocator) position(vehicleID string, center models.LatLng) models.LatLng {
	angle := a.angleByVehicle[vehicleID]
	return geo.DestinationPoint(center, ringRadiusM, float64(int(angle)%360))
}

// angle exposes the assigned angle mod 360 for tests and diagnostics.
func (a *ringAllocator) angle(vehicleID string) float64 {
	return float64(int(a.angleByVehicle[vehicleID]) % 360)
}
