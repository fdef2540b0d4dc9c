package service

import "github.com/leitstand/unitmap/internal/models"

// sourceIndex holds the lookup structures built from one snapshot of the
// three position sources plus the board. Building it is pure and
// O(vehicles + incidents + samples).
type sourceIndex struct {
	gpsByKey          map[string]models.GpsSample
	manualByVehicle   map[string]models.ManualOverride
	incidentByVehicle map[string]*models.Incident
	incidentPos       map[string]models.LatLng
}

func buildSourceIndex(incidents []*models.Incident, samples []models.GpsSample, overrides []models.ManualOverride) *sourceIndex {
	idx := &sourceIndex{
		gpsByKey:          make(map[string]models.GpsSample, len(samples)),
		manualByVehicle:   make(map[string]models.ManualOverride, len(overrides)),
		incidentByVehicle: make(map[string]*models.Incident),
		incidentPos:       make(map[string]models.LatLng, len(incidents)),
	}

	for _, s := range samples {
		key := NormalizeUnitName(s.Name)
		if key == "" {
			continue
		}
		idx.gpsByKey[key] = s
	}

	for _, ov := range overrides {
		idx.manualByVehicle[ov.VehicleID] = ov
	}

	for _, inc := range incidents {
		for _, vid := range inc.AssignedVehicleIDs {
			idx.incidentByVehicle[vid] = inc
		}
		// Geocoding of free-text addresses happens upstream; a card without
		// coordinates simply has no entry here.
		if inc.HasCoordinates() {
			idx.incidentPos[inc.ID] = models.LatLng{Lat: *inc.Latitude, Lng: *inc.Longitude}
		}
	}

	return idx
}

// gpsFor looks up a vehicle's GPS sample. The feed names units differently
// from the roster, so the combined "label home" key is tried first, then the
// label and the home location alone.
func (idx *sourceIndex) gpsFor(v *models.Vehicle) (models.GpsSample, bool) {
	for _, key := range []string{
		NormalizeUnitName(v.Label + " " + v.Home),
		NormalizeUnitName(v.Label),
		NormalizeUnitName(v.Home),
	} {
		if key == "" {
			continue
		}
		if s, ok := idx.gpsByKey[key]; ok {
			return s, true
		}
	}
	return models.GpsSample{}, false
}
