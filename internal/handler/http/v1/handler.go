package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leitstand/unitmap/internal/config"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	positionService  service.PositionService
	proximityService service.ProximityService
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(positionService service.PositionService, proximityService service.ProximityService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		positionService:  positionService,
		proximityService: proximityService,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// @Summary Find units near an incident
// @Description Rank vehicles by geodesic distance to the incident's coordinates. Falls back to alerted-text token matching when no candidate has a measurable position. Requires API key.
// @Tags Proximity
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param cardId query string true "Incident (card) ID"
// @Param radiusKm query number false "Radius filter in km; omit to rank without filtering"
// @Success 200 {object} ProximityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Card not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /nearby [get]
func (h *Handler) nearby(c *gin.Context) {
	cardID := c.Query("cardId")
	log := h.logger.WithField("method", "nearby").WithField("card_id", cardID)

	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardId is required"})
		return
	}

	radiusKm := h.cfg.NearbyRadiusKm
	if raw := c.Query("radiusKm"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	result, err := h.proximityService.Nearby(c.Request.Context(), cardID, &radiusKm)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		log.WithError(err).Error("Nearby query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToProximityResponse(result))
}

// @Summary Get current unit positions
// @Description Resolve every vehicle's authoritative position and icon state from a fresh snapshot. Requires API key.
// @Tags Positions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} PositionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /positions [get]
func (h *Handler) getPositions(c *gin.Context) {
	log := h.logger.WithField("method", "getPositions")

	markers, err := h.positionService.Snapshot(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to resolve positions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, PositionsResponse{
		SnapshotID: uuid.New(),
		At:         time.Now().UTC(),
		Units:      ModelsToMarkerResponses(markers),
	})
}

// @Summary Set a manual vehicle position
// @Description Persist a drag-to-reposition override for a vehicle. The override wins over ring-fallback but never over live GPS. Requires API key.
// @Tags Positions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Vehicle ID"
// @Param position body SetPositionRequest true "Override position"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles/{id}/position [patch]
func (h *Handler) setVehiclePosition(c *gin.Context) {
	vehicleID := c.Param("id")
	log := h.logger.WithField("method", "setVehiclePosition").WithField("vehicle_id", vehicleID)

	var input SetPositionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat/lng required"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ov := models.ManualOverride{
		VehicleID:  vehicleID,
		Lat:        input.Lat,
		Lng:        input.Lng,
		IncidentID: input.IncidentID,
		Source:     input.Source,
	}
	if err := h.positionService.SetManualPosition(c.Request.Context(), ov); err != nil {
		log.WithError(err).Error("Failed to set manual position")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Clear a manual vehicle position
// @Description Remove a vehicle's override so the resolver falls back to GPS or ring placement. Clearing a vehicle without an override succeeds. Requires API key.
// @Tags Positions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Vehicle ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /vehicles/{id}/position [delete]
func (h *Handler) clearVehiclePosition(c *gin.Context) {
	vehicleID := c.Param("id")
	log := h.logger.WithField("method", "clearVehiclePosition").WithField("vehicle_id", vehicleID)

	if err := h.positionService.ClearManualPosition(c.Request.Context(), vehicleID); err != nil {
		log.WithError(err).Error("Failed to clear manual position")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
