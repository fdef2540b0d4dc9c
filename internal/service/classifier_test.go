package service

import (
	"testing"

	"github.com/leitstand/unitmap/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyIcon_Unassigned(t *testing.T) {
	pos := models.LatLng{Lat: 48.0, Lng: 16.0}
	assert.Equal(t, models.IconUnassigned, classifyIcon(false, true, pos, &pos))
}

func TestClassifyIcon_AssignedWithoutGPS(t *testing.T) {
	// No GPS means no measurable distance: assumed on scene.
	pos := models.LatLng{Lat: 48.0, Lng: 16.0}
	assert.Equal(t, models.IconStationary, classifyIcon(true, false, pos, &pos))
}

func TestClassifyIcon_AssignedWithoutIncidentPosition(t *testing.T) {
	pos := models.LatLng{Lat: 48.0, Lng: 16.0}
	assert.Equal(t, models.IconStationary, classifyIcon(true, true, pos, nil))
}

func TestClassifyIcon_EnRoute(t *testing.T) {
	// ~200 m north of the incident.
	incident := models.LatLng{Lat: 48.0, Lng: 16.0}
	pos := models.LatLng{Lat: 48.0018, Lng: 16.0}
	assert.Equal(t, models.IconEnRoute, classifyIcon(true, true, pos, &incident))
}

func TestIconForDistance_Boundary(t *testing.T) {
	// Exactly at the threshold is still stationary; strictly beyond is not.
	assert.Equal(t, models.IconStationary, iconForDistance(0.1))
	assert.Equal(t, models.IconStationary, iconForDistance(0.05))
	assert.Equal(t, models.IconEnRoute, iconForDistance(0.1001))
	assert.Equal(t, models.IconEnRoute, iconForDistance(5.0))
}
