package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestProximityService(t *testing.T) (*proximityService, positionServiceMocks) {
	ctrl := gomock.NewController(t)
	m := positionServiceMocks{
		roster:    mocks.NewMockRosterRepository(ctrl),
		board:     mocks.NewMockBoardRepository(ctrl),
		gps:       mocks.NewMockGpsRepository(ctrl),
		overrides: mocks.NewMockOverrideRepository(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewProximityService(m.roster, m.board, m.gps, m.overrides, logger)
	return svc.(*proximityService), m
}

func (m positionServiceMocks) expectSnapshot(ctx context.Context, vehicles []*models.Vehicle, incidents []*models.Incident, samples []models.GpsSample, overrides []models.ManualOverride) {
	m.roster.EXPECT().ListVehicles(ctx).Return(vehicles, nil).Times(1)
	m.board.EXPECT().ListActiveIncidents(ctx).Return(incidents, nil).Times(1)
	m.gps.EXPECT().Snapshot(ctx).Return(samples, nil).Times(1)
	m.overrides.EXPECT().List(ctx).Return(overrides, nil).Times(1)
}

func TestNearby_UnknownIncident(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	m.board.EXPECT().GetIncident(ctx, "missing").Return(nil, fmt.Errorf("incident with id missing not found")).Times(1)

	result, err := svc.Nearby(ctx, "missing", nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestNearby_IncidentWithoutCoordinates(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{ID: "inc-1", Status: models.StatusNew}
	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "card has no coordinates", result.Error)
	assert.Empty(t, result.Units)
}

func TestNearby_SortsByDistanceAndRounds(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
	}
	vehicles := []*models.Vehicle{
		{ID: "far", Label: "Tank 2", Home: "Grünberg"},
		{ID: "near", Label: "Tank 1", Home: "Bergdorf"},
	}
	samples := []models.GpsSample{
		{Name: "Bergdorf Tank 1", Lat: 48.01, Lng: 16.0},  // ~1.1 km
		{Name: "Grünberg Tank 2", Lat: 48.02, Lng: 16.0},  // ~2.2 km
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)
	m.expectSnapshot(ctx, vehicles, []*models.Incident{incident}, samples, nil)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.NoError(t, err)
	require.True(t, result.OK)
	require.Len(t, result.Units, 2)

	assert.Equal(t, "near", result.Units[0].UnitID)
	assert.Equal(t, "far", result.Units[1].UnitID)
	require.NotNil(t, result.Units[0].DistanceKm)
	require.NotNil(t, result.Units[1].DistanceKm)
	assert.Equal(t, 1.1, *result.Units[0].DistanceKm)
	assert.Equal(t, 2.2, *result.Units[1].DistanceKm)
	assert.Equal(t, "Bergdorf", result.Units[0].Group)
}

func TestNearby_RadiusFilters(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
	}
	vehicles := []*models.Vehicle{
		{ID: "near", Label: "Tank 1", Home: "Bergdorf"},
		{ID: "far", Label: "Tank 2", Home: "Grünberg"},
	}
	samples := []models.GpsSample{
		{Name: "Bergdorf Tank 1", Lat: 48.01, Lng: 16.0},
		{Name: "Grünberg Tank 2", Lat: 48.02, Lng: 16.0},
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)
	m.expectSnapshot(ctx, vehicles, []*models.Incident{incident}, samples, nil)

	radius := 1.5
	result, err := svc.Nearby(ctx, "inc-1", &radius)

	require.NoError(t, err)
	require.Len(t, result.Units, 1)
	assert.Equal(t, "near", result.Units[0].UnitID)
	require.NotNil(t, result.RadiusKm)
	assert.Equal(t, 1.5, *result.RadiusKm)
}

func TestNearby_AssignedVehicleMeasuredFromItsCard(t *testing.T) {
	// No GPS, no override: the assigned card's own coordinates stand in for
	// the vehicle's position, and the unit is flagged assigned.
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	target := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
	}
	other := &models.Incident{
		ID:                 "inc-2",
		Status:             models.StatusInProgress,
		Latitude:           floatPtr(48.01),
		Longitude:          floatPtr(16.0),
		AssignedVehicleIDs: []string{"v1"},
	}
	vehicles := []*models.Vehicle{
		{ID: "v1", Label: "Tank 1", Home: "Bergdorf"},
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(target, nil).Times(1)
	m.expectSnapshot(ctx, vehicles, []*models.Incident{target, other}, nil, nil)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.NoError(t, err)
	require.Len(t, result.Units, 1)
	assert.Equal(t, "v1", result.Units[0].UnitID)
	assert.True(t, result.Units[0].Assigned)
	assert.Equal(t, "inc-2", result.Units[0].AssignedIncidentID)
	require.NotNil(t, result.Units[0].DistanceKm)
	assert.Equal(t, 1.1, *result.Units[0].DistanceKm)
}

func TestNearby_AlertedFallback(t *testing.T) {
	// Nobody has a measurable position: the card's alerted text is matched
	// against the roster instead. Fallback hits carry no distance.
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
		Alerted:   "Ort A; Ort B",
	}
	vehicles := []*models.Vehicle{
		{ID: "v1", Label: "Tank 1", Home: "Ort A"},
		{ID: "v2", Label: "Tank 2", Home: "Ort B"},
		{ID: "v3", Label: "Tank 3", Home: "Ort C"},
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)
	m.expectSnapshot(ctx, vehicles, []*models.Incident{incident}, nil, nil)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.NoError(t, err)
	require.True(t, result.OK)
	require.Len(t, result.Units, 2)
	for _, u := range result.Units {
		assert.Nil(t, u.DistanceKm)
		assert.Equal(t, "alerted", u.Fallback)
	}
	assert.Equal(t, "v1", result.Units[0].UnitID)
	assert.Equal(t, "v2", result.Units[1].UnitID)
}

func TestNearby_AlertedFallbackSkipsAssigned(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
		Alerted:   "Ort A",
	}
	// Assigned to a card without coordinates: no measurable position, but
	// also excluded from the fallback because it is already committed.
	other := &models.Incident{
		ID:                 "inc-2",
		Status:             models.StatusNew,
		AssignedVehicleIDs: []string{"v1"},
	}
	vehicles := []*models.Vehicle{
		{ID: "v1", Label: "Tank 1", Home: "Ort A"},
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)
	m.expectSnapshot(ctx, vehicles, []*models.Incident{incident, other}, nil, nil)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Units)
}

func TestNearby_SourceFetchError(t *testing.T) {
	svc, m := newTestProximityService(t)
	ctx := context.Background()

	incident := &models.Incident{
		ID:        "inc-1",
		Status:    models.StatusNew,
		Latitude:  floatPtr(48.0),
		Longitude: floatPtr(16.0),
	}

	m.board.EXPECT().GetIncident(ctx, "inc-1").Return(incident, nil).Times(1)
	m.roster.EXPECT().ListVehicles(ctx).Return(nil, fmt.Errorf("connection refused")).Times(1)

	result, err := svc.Nearby(ctx, "inc-1", nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "could not fetch roster")
}
