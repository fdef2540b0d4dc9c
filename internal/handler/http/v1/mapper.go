package v1

import "github.com/leitstand/unitmap/internal/models"

// ModelToMarkerResponse converts a resolved marker into its response DTO.
func ModelToMarkerResponse(m models.UnitMarker) UnitMarkerResponse {
	return UnitMarkerResponse{
		VehicleID:  m.VehicleID,
		Lat:        m.Lat,
		Lng:        m.Lng,
		Origin:     string(m.Origin),
		HasGPS:     m.HasGPS,
		IncidentID: m.IncidentID,
		Icon:       string(m.Icon),
	}
}

// ModelsToMarkerResponses converts a marker slice into response DTOs.
func ModelsToMarkerResponses(markers []models.UnitMarker) []UnitMarkerResponse {
	responses := make([]UnitMarkerResponse, len(markers))
	for i, m := range markers {
		responses[i] = ModelToMarkerResponse(m)
	}
	return responses
}

// ModelToProximityResponse converts a proximity result into its response DTO.
func ModelToProximityResponse(res *models.ProximityResult) ProximityResponse {
	out := ProximityResponse{
		OK:       res.OK,
		Error:    res.Error,
		RadiusKm: res.RadiusKm,
		Units:    make([]ProximityUnitResponse, len(res.Units)),
	}
	if res.Center != nil {
		out.Center = &LatLngResponse{Lat: res.Center.Lat, Lng: res.Center.Lng}
	}
	for i, u := range res.Units {
		out.Units[i] = ProximityUnitResponse{
			UnitID:             u.UnitID,
			DistanceKm:         u.DistanceKm,
			Group:              u.Group,
			Assigned:           u.Assigned,
			AssignedIncidentID: u.AssignedIncidentID,
			Fallback:           u.Fallback,
		}
	}
	return out
}
