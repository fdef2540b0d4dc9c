package service

import (
	"github.com/leitstand/unitmap/internal/geo"
	"github.com/leitstand/unitmap/internal/models"
)

// enRouteThresholdKm is the fixed business rule separating "on scene" from
// "driving": strictly more than 100 m from the assigned incident means
// en-route. Evaluated fresh every tick, no hysteresis.
const enRouteThresholdKm = 0.1

// classifyIcon picks the display state for a resolved vehicle position.
// Without GPS or an incident position no distance can be computed and the
// vehicle is assumed on scene.
func classifyIcon(assigned bool, hasGPS bool, pos models.LatLng, incidentPos *models.LatLng) models.IconState {
	if !assigned {
		return models.IconUnassigned
	}
	if !hasGPS || incidentPos == nil {
		return models.IconStationary
	}
	return iconForDistance(geo.DistanceKm(pos, *incidentPos))
}

func iconForDistance(distKm float64) models.IconState {
	if distKm > enRouteThresholdKm {
		return models.IconEnRoute
	}
	return models.IconStationary
}
