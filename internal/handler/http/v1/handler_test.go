package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leitstand/unitmap/internal/config"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
	"github.com/leitstand/unitmap/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestHandler wires the handler with mocked services behind a test router.
func newTestHandler(t *testing.T) (*Handler, *mocks.MockPositionService, *mocks.MockProximityService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	positionMock := mocks.NewMockPositionService(ctrl)
	proximityMock := mocks.NewMockProximityService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys:        []string{"test-api-key"},
		NearbyRadiusKm: 10,
	}

	handler := NewHandler(positionMock, proximityMock, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, positionMock, proximityMock, router
}

// makeRequest runs one request through the test router.
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeader() map[string]string {
	return map[string]string{"X-API-Key": "test-api-key"}
}

func floatPtr(f float64) *float64 { return &f }

func TestNearby_Success(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	expected := &models.ProximityResult{
		OK:       true,
		Center:   &models.LatLng{Lat: 48.0, Lng: 16.0},
		RadiusKm: floatPtr(10),
		Units: []models.ProximityUnit{
			{UnitID: "v1", DistanceKm: floatPtr(1.1), Group: "Bergdorf"},
			{UnitID: "v2", DistanceKm: floatPtr(2.2), Group: "Grünberg", Assigned: true, AssignedIncidentID: "inc-9"},
		},
	}

	proximityMock.EXPECT().
		Nearby(gomock.Any(), "card-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, radiusKm *float64) (*models.ProximityResult, error) {
			require.NotNil(t, radiusKm)
			assert.Equal(t, 10.0, *radiusKm) // config default
			return expected, nil
		}).Times(1)

	w := makeRequest(router, "GET", "/api/v1/nearby?cardId=card-1", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProximityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Units, 2)
	assert.Equal(t, "v1", resp.Units[0].UnitID)
	assert.Equal(t, 1.1, *resp.Units[0].DistanceKm)
	assert.Equal(t, "inc-9", resp.Units[1].AssignedIncidentID)
}

func TestNearby_CustomRadius(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	proximityMock.EXPECT().
		Nearby(gomock.Any(), "card-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, radiusKm *float64) (*models.ProximityResult, error) {
			require.NotNil(t, radiusKm)
			assert.Equal(t, 2.5, *radiusKm)
			return &models.ProximityResult{OK: true, Units: []models.ProximityUnit{}}, nil
		}).Times(1)

	w := makeRequest(router, "GET", "/api/v1/nearby?cardId=card-1&radiusKm=2.5", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNearby_MissingCardID(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	proximityMock.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/nearby", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cardId is required")
}

func TestNearby_CardNotFound(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	proximityMock.EXPECT().
		Nearby(gomock.Any(), "missing", gomock.Any()).
		Return(nil, fmt.Errorf("service: %w", service.ErrIncidentNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/nearby?cardId=missing", nil, authHeader())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "card not found")
}

func TestNearby_NoCoordinates(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	proximityMock.EXPECT().
		Nearby(gomock.Any(), "card-1", gomock.Any()).
		Return(&models.ProximityResult{
			OK:    false,
			Error: "card has no coordinates",
			Units: []models.ProximityUnit{},
		}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/nearby?cardId=card-1", nil, authHeader())

	// Not an HTTP failure: the card exists, it just cannot anchor a search.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
	assert.Contains(t, w.Body.String(), "card has no coordinates")
}

func TestNearby_ServiceError(t *testing.T) {
	_, _, proximityMock, router := newTestHandler(t)

	proximityMock.EXPECT().
		Nearby(gomock.Any(), "card-1", gomock.Any()).
		Return(nil, errors.New("database error")).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/nearby?cardId=card-1", nil, authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetPositions_Success(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	markers := []models.UnitMarker{
		{VehicleID: "v1", Lat: 48.0, Lng: 16.0, Origin: models.OriginGPS, HasGPS: true, Icon: models.IconUnassigned},
		{VehicleID: "v2", Lat: 48.1, Lng: 16.1, Origin: models.OriginRing, IncidentID: "inc-1", Icon: models.IconStationary},
	}

	positionMock.EXPECT().Snapshot(gomock.Any()).Return(markers, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/positions", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PositionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Units, 2)
	assert.Equal(t, "gps", resp.Units[0].Origin)
	assert.Equal(t, "ring-fallback", resp.Units[1].Origin)
	assert.Equal(t, "inc-1", resp.Units[1].IncidentID)
}

func TestGetPositions_ServiceError(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().Snapshot(gomock.Any()).Return(nil, errors.New("board unreachable")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/positions", nil, authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSetVehiclePosition_Success(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	reqBody := SetPositionRequest{
		Lat:        48.2,
		Lng:        16.4,
		IncidentID: "inc-1",
	}

	positionMock.EXPECT().
		SetManualPosition(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ov models.ManualOverride) {
			assert.Equal(t, "v1", ov.VehicleID)
			assert.Equal(t, 48.2, ov.Lat)
			assert.Equal(t, "inc-1", ov.IncidentID)
		}).Return(nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PATCH", "/api/v1/vehicles/v1/position", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestSetVehiclePosition_InvalidJSON(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().SetManualPosition(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PATCH", "/api/v1/vehicles/v1/position", bytes.NewBufferString(`{"lat": 48.0`), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "lat/lng required")
}

func TestSetVehiclePosition_ValidationError(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().SetManualPosition(gomock.Any(), gomock.Any()).Times(0)

	// Latitude out of range.
	reqBody := SetPositionRequest{Lat: 91.0, Lng: 16.4}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PATCH", "/api/v1/vehicles/v1/position", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Lat' failed on the 'latitude' tag")
}

func TestSetVehiclePosition_ServiceError(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().SetManualPosition(gomock.Any(), gomock.Any()).Return(errors.New("db error")).Times(1)

	reqBody := SetPositionRequest{Lat: 48.2, Lng: 16.4}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PATCH", "/api/v1/vehicles/v1/position", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestClearVehiclePosition_Success(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().ClearManualPosition(gomock.Any(), "v1").Return(nil).Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/vehicles/v1/position", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestClearVehiclePosition_ServiceError(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().ClearManualPosition(gomock.Any(), "v1").Return(errors.New("db error")).Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/vehicles/v1/position", nil, authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestHealthCheck_PublicWithoutKey(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutes_MissingKey(t *testing.T) {
	_, positionMock, proximityMock, router := newTestHandler(t)

	positionMock.EXPECT().Snapshot(gomock.Any()).Times(0)
	proximityMock.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, url := range []string{"/api/v1/positions", "/api/v1/nearby?cardId=card-1"} {
		w := makeRequest(router, "GET", url, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, url)
		assert.Contains(t, w.Body.String(), "API key required")
	}
}

func TestProtectedRoutes_BearerToken(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().Snapshot(gomock.Any()).Return([]models.UnitMarker{}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/positions", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes_InvalidKey(t *testing.T) {
	_, positionMock, _, router := newTestHandler(t)

	positionMock.EXPECT().Snapshot(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/positions", nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}
