package handlers

import (
	"errors"
	"net/http"

	"inferno/internal/models"
	"inferno/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusAccepted = "accepted"

	errInvalidBodyPref = "invalid body: "
	errRejectedMode    = "mode transition not allowed from current mode"
	errModeChange      = "failed to change mode"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ModeRequest is the payload of POST /api/v1/mode.
type ModeRequest struct {
	// Mode to enter. Allowed: Ready, Preheat, Smoke, Hold, Sear, Shutdown
	Mode string `json:"mode" binding:"required" example:"Smoke"`
}

// SetPointRequest is the payload of POST /api/v1/setpoint.
type SetPointRequest struct {
	// Target grill temperature in °F; clamped to the configured range
	SetPoint *int `json:"setPoint" binding:"required" example:"225"`
}

// PValueRequest is the payload of POST /api/v1/pvalue.
type PValueRequest struct {
	// Smoke level 0..5; clamped
	PValue *int `json:"pValue" binding:"required" example:"2"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get current mode
// @Tags         smoker
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/mode [get]
// @Security     BearerAuth
func (h *Handler) getMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": h.services.Monitoring.Mode()})
}

// @Summary      Request a mode change
// @Description  Error cannot be requested. Cooking modes cannot go straight to Ready; use Shutdown.
// @Tags         smoker
// @Accept       json
// @Produce      json
// @Param        body  body      ModeRequest  true  "Mode payload"
// @Success      202   {object}  map[string]interface{}  "status, mode, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Control.RequestMode(c.Request.Context(), mode); err != nil {
		if errors.Is(err, service.ErrRejectedTransition) {
			op, _ := operatorID(c)
			h.log.Infow("mode_request_rejected", "err", err, "operator", op)
			c.JSON(http.StatusForbidden, gin.H{"error": errRejectedMode, "mode": h.services.Monitoring.Mode()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errModeChange, "mode_request_failed", err, "mode", mode)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": statusAccepted,
		"mode":   mode,
		"state":  h.services.Monitoring.Status(),
	})
}

// @Summary      Get set point
// @Tags         smoker
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/setpoint [get]
// @Security     BearerAuth
func (h *Handler) getSetPoint(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"setPoint": h.services.Monitoring.SetPoint()})
}

// @Summary      Change set point
// @Description  The value is clamped to the configured range. Ready, Smoke and Shutdown pin the set point themselves.
// @Tags         smoker
// @Accept       json
// @Produce      json
// @Param        body  body      SetPointRequest  true  "Set point payload"
// @Success      200   {object}  map[string]interface{}  "setPoint, persisted"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/setpoint [post]
// @Security     BearerAuth
func (h *Handler) setSetPoint(c *gin.Context) {
	var req SetPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	stored, err := h.services.Control.SetSetPoint(c.Request.Context(), *req.SetPoint)
	if err != nil {
		h.log.Warnw("set_point_not_persisted", "err", err, "set_point", stored)
	}
	c.JSON(http.StatusOK, gin.H{"setPoint": stored, "persisted": err == nil})
}

// @Summary      Get smoke level
// @Tags         smoker
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/pvalue [get]
// @Security     BearerAuth
func (h *Handler) getPValue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pValue": h.services.Monitoring.PValue()})
}

// @Summary      Change smoke level
// @Tags         smoker
// @Accept       json
// @Produce      json
// @Param        body  body      PValueRequest  true  "Smoke level payload"
// @Success      200   {object}  map[string]interface{}  "pValue, persisted"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/pvalue [post]
// @Security     BearerAuth
func (h *Handler) setPValue(c *gin.Context) {
	var req PValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	stored, err := h.services.Control.SetPValue(c.Request.Context(), *req.PValue)
	if err != nil {
		h.log.Warnw("p_value_not_persisted", "err", err, "p_value", stored)
	}
	c.JSON(http.StatusOK, gin.H{"pValue": stored, "persisted": err == nil})
}

// @Summary      Get temperatures
// @Description  Readings in °F; -1 marks an unplugged channel.
// @Tags         smoker
// @Produce      json
// @Success      200  {object}  models.Temps
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/temps [get]
// @Security     BearerAuth
func (h *Handler) getTemps(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Temps())
}

// @Summary      Get full status
// @Tags         smoker
// @Produce      json
// @Success      200  {object}  models.Status
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Status())
}
