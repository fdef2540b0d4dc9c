package service

import "github.com/leitstand/unitmap/internal/models"

// resolveMarkers applies the source precedence to every roster vehicle and
// returns the render set for one tick. Precedence is a strict total order:
// gps > manual > ring-fallback > none. A vehicle with no source at all is
// omitted — not currently relevant to the board, not an error.
func resolveMarkers(vehicles []*models.Vehicle, idx *sourceIndex) []models.UnitMarker {
	// First pass: collect the vehicles that will need a ring slot, grouped
	// by incident, so angles can be assigned over the full sorted set.
	ringCandidates := make(map[string][]string)
	for _, v := range vehicles {
		if _, ok := idx.gpsFor(v); ok {
			continue
		}
		if _, ok := idx.manualByVehicle[v.ID]; ok {
			continue
		}
		inc, ok := idx.incidentByVehicle[v.ID]
		if !ok {
			continue
		}
		if _, ok := idx.incidentPos[inc.ID]; !ok {
			continue
		}
		ringCandidates[inc.ID] = append(ringCandidates[inc.ID], v.ID)
	}
	ring := newRingAllocator(ringCandidates)

	markers := make([]models.UnitMarker, 0, len(vehicles))
	for _, v := range vehicles {
		m := models.UnitMarker{VehicleID: v.ID, Origin: models.OriginNone}

		inc := idx.incidentByVehicle[v.ID]
		if inc != nil {
			m.IncidentID = inc.ID
		}

		if s, ok := idx.gpsFor(v); ok {
			m.Origin = models.OriginGPS
			m.HasGPS = true
			m.Lat, m.Lng = s.Lat, s.Lng
		} else if ov, ok := idx.manualByVehicle[v.ID]; ok {
			m.Origin = models.OriginManual
			m.Lat, m.Lng = ov.Lat, ov.Lng
		} else if inc != nil {
			center, ok := idx.incidentPos[inc.ID]
			if !ok {
				// Assigned, but the incident has no resolved position:
				// nothing to anchor a ring slot to.
				continue
			}
			m.Origin = models.OriginRing
			pos := ring.position(v.ID, center)
			m.Lat, m.Lng = pos.Lat, pos.Lng
		} else {
			continue
		}

		var incidentPos *models.LatLng
		if inc != nil {
			if p, ok := idx.incidentPos[inc.ID]; ok {
				incidentPos = &p
			}
		}
		m.Icon = classifyIcon(inc != nil, m.HasGPS, models.LatLng{Lat: m.Lat, Lng: m.Lng}, incidentPos)

		markers = append(markers, m)
	}
	return markers
}
