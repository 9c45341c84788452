// internal/handler/camera_handler.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"camera-service/internal/driver/geolux"
	"camera-service/internal/model"
	"camera-service/internal/service"
	"camera-service/internal/utils"
)

// CameraHandler handles camera control HTTP requests
type CameraHandler struct {
	cameraService *service.CameraService
	logger        *utils.ServiceLogger
}

// NewCameraHandler creates a new camera handler
func NewCameraHandler(cameraService *service.CameraService, logger *zap.Logger) *CameraHandler {
	return &CameraHandler{
		cameraService: cameraService,
		logger:        utils.NewServiceLogger(logger, "camera-handler"),
	}
}

// RegisterRoutes registers camera control routes
func (h *CameraHandler) RegisterRoutes(router *gin.RouterGroup) {
	camera := router.Group("/camera")
	{
		camera.GET("/status", h.GetStatus)
		camera.GET("/info", h.GetInfo)
		camera.GET("/settings", h.GetSettings)
		camera.PUT("/settings", h.UpdateSettings)
		camera.POST("/autofocus", h.RunAutofocus)
		camera.POST("/focus", h.MoveFocus)
		camera.POST("/zoom", h.MoveZoom)
		camera.POST("/restart", h.Restart)
		camera.POST("/sleep", h.Sleep)
		camera.GET("/link", h.GetLinkStats)
		camera.GET("/ports", h.ListPorts)
	}
}

// cameraErrorResponse maps wire-level failures onto HTTP statuses
func (h *CameraHandler) cameraErrorResponse(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrCameraBusy):
		utils.ErrorResponse(c, http.StatusConflict, message, err)
	case errors.Is(err, geolux.ErrNoResponse):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, message, err)
	case errors.Is(err, geolux.ErrDeviceReset):
		utils.ErrorResponse(c, http.StatusBadGateway, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}

// GetStatus returns the live camera state
// @Summary Camera status
// @Description Query the camera over the serial link for its current state
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.CameraStatus} "Camera status"
// @Failure 504 {object} utils.APIResponse "Camera did not respond"
// @Router /camera/status [get]
func (h *CameraHandler) GetStatus(c *gin.Context) {
	status, err := h.cameraService.Status(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get camera status", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to get camera status", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera status retrieved", status)
}

// GetInfo returns camera identity and the raw parameter dump
// @Summary Camera info
// @Description Read the camera identity block and the full parameter dump
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.CameraInfo} "Camera info"
// @Failure 504 {object} utils.APIResponse "Camera did not respond"
// @Router /camera/info [get]
func (h *CameraHandler) GetInfo(c *gin.Context) {
	info, err := h.cameraService.Info(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get camera info", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to get camera info", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera info retrieved", info)
}

// GetSettings returns the adjustable camera settings
// @Summary Camera settings
// @Description Read the current values of the adjustable camera settings
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.CameraSettings} "Camera settings"
// @Failure 504 {object} utils.APIResponse "Camera did not respond"
// @Router /camera/settings [get]
func (h *CameraHandler) GetSettings(c *gin.Context) {
	settings, err := h.cameraService.Settings(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get camera settings", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to get camera settings", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera settings retrieved", settings)
}

// UpdateSettings applies camera settings
// @Summary Update camera settings
// @Description Apply the provided settings to the camera. Fields left out are not touched.
// @Tags Camera
// @Accept json
// @Produce json
// @Param request body model.UpdateSettingsRequest true "Settings to apply"
// @Success 200 {object} utils.APIResponse "Settings applied"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Camera is busy"
// @Router /camera/settings [put]
func (h *CameraHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.cameraService.UpdateSettings(c.Request.Context(), &req); err != nil {
		h.logger.Error("Failed to update camera settings", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to update camera settings", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera settings applied", nil)
}

// RunAutofocus starts an autofocus run
// @Summary Run autofocus
// @Description Start an autofocus run on the camera
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse "Autofocus started"
// @Failure 409 {object} utils.APIResponse "Camera is busy"
// @Router /camera/autofocus [post]
func (h *CameraHandler) RunAutofocus(c *gin.Context) {
	if err := h.cameraService.Autofocus(c.Request.Context()); err != nil {
		h.logger.Error("Failed to run autofocus", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to run autofocus", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Autofocus started", nil)
}

// MoveFocus nudges the focus motor
// @Summary Move focus
// @Description Move the focus motor by the given number of steps
// @Tags Camera
// @Accept json
// @Produce json
// @Param request body model.MoveRequest true "Steps to move"
// @Success 200 {object} utils.APIResponse "Focus moved"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /camera/focus [post]
func (h *CameraHandler) MoveFocus(c *gin.Context) {
	var req model.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.cameraService.MoveFocus(c.Request.Context(), req.Steps); err != nil {
		h.logger.Error("Failed to move focus", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to move focus", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Focus moved", nil)
}

// MoveZoom nudges the zoom motor
// @Summary Move zoom
// @Description Move the zoom motor by the given number of steps
// @Tags Camera
// @Accept json
// @Produce json
// @Param request body model.MoveRequest true "Steps to move"
// @Success 200 {object} utils.APIResponse "Zoom moved"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /camera/zoom [post]
func (h *CameraHandler) MoveZoom(c *gin.Context) {
	var req model.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.cameraService.MoveZoom(c.Request.Context(), req.Steps); err != nil {
		h.logger.Error("Failed to move zoom", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to move zoom", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Zoom moved", nil)
}

// Restart reboots the camera
// @Summary Restart camera
// @Description Reboot the camera and wait for it to come back
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse "Camera restarted"
// @Failure 504 {object} utils.APIResponse "Camera did not come back"
// @Router /camera/restart [post]
func (h *CameraHandler) Restart(c *gin.Context) {
	if err := h.cameraService.Restart(c.Request.Context()); err != nil {
		h.logger.Error("Failed to restart camera", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to restart camera", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera restarted", nil)
}

// Sleep puts the camera into low power mode
// @Summary Sleep camera
// @Description Put the camera into low power mode for the given number of seconds
// @Tags Camera
// @Accept json
// @Produce json
// @Param request body model.SleepRequest true "Sleep duration in seconds"
// @Success 200 {object} utils.APIResponse "Camera sleeping"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /camera/sleep [post]
func (h *CameraHandler) Sleep(c *gin.Context) {
	var req model.SleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.cameraService.Sleep(c.Request.Context(), req.Seconds); err != nil {
		h.logger.Error("Failed to sleep camera", zap.Error(err))
		h.cameraErrorResponse(c, "Failed to sleep camera", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Camera sleeping", nil)
}

// GetLinkStats returns serial link byte counters
// @Summary Link statistics
// @Description Byte counters and connectivity of the serial link
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=protocol.LinkStats} "Link statistics"
// @Router /camera/link [get]
func (h *CameraHandler) GetLinkStats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Link statistics retrieved", h.cameraService.LinkStats())
}

// ListPorts lists serial ports on this host
// @Summary List serial ports
// @Description List the serial ports present on this host
// @Tags Camera
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]string} "Serial ports"
// @Router /camera/ports [get]
func (h *CameraHandler) ListPorts(c *gin.Context) {
	ports, err := h.cameraService.AvailablePorts()
	if err != nil {
		h.logger.Error("Failed to list serial ports", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list serial ports", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Serial ports retrieved", ports)
}
