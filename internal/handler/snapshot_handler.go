// internal/handler/snapshot_handler.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"camera-service/internal/driver/geolux"
	"camera-service/internal/model"
	"camera-service/internal/repository"
	"camera-service/internal/service"
	"camera-service/internal/utils"
)

// SnapshotHandler handles snapshot HTTP requests
type SnapshotHandler struct {
	cameraService *service.CameraService
	logger        *utils.ServiceLogger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(cameraService *service.CameraService, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		cameraService: cameraService,
		logger:        utils.NewServiceLogger(logger, "snapshot-handler"),
	}
}

// RegisterRoutes registers snapshot routes
func (h *SnapshotHandler) RegisterRoutes(router *gin.RouterGroup) {
	snapshots := router.Group("/snapshots")
	{
		snapshots.POST("", h.Capture)
		snapshots.GET("", h.ListSnapshots)
		snapshots.GET("/stats", h.GetStats)

		snapshotRoutes := snapshots.Group("/:id")
		{
			snapshotRoutes.GET("", h.GetSnapshot)
			snapshotRoutes.GET("/image", h.DownloadImage)
			snapshotRoutes.DELETE("", h.DeleteSnapshot)
		}
	}
}

// Capture triggers a snapshot and transfers the image
// @Summary Capture snapshot
// @Description Trigger a snapshot on the camera, pull the image over the serial link and store it. Blocks until the transfer ends.
// @Tags Snapshots
// @Accept json
// @Produce json
// @Success 201 {object} utils.APIResponse{data=model.Snapshot} "Snapshot captured"
// @Failure 409 {object} utils.APIResponse "Camera is busy"
// @Failure 504 {object} utils.APIResponse "Camera did not respond"
// @Router /snapshots [post]
func (h *SnapshotHandler) Capture(c *gin.Context) {
	snapshot, err := h.cameraService.Capture(c.Request.Context())
	if err != nil {
		h.logger.Error("Snapshot capture failed", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrCameraBusy):
			utils.ErrorResponse(c, http.StatusConflict, "Camera is busy", err)
		case errors.Is(err, geolux.ErrNoResponse):
			utils.ErrorResponse(c, http.StatusGatewayTimeout, "Camera did not respond", err)
		case errors.Is(err, geolux.ErrDeviceReset):
			utils.ErrorResponse(c, http.StatusBadGateway, "Camera reset during capture", err)
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Snapshot capture failed", err)
		}
		return
	}

	h.logger.Info("Snapshot captured",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.String("status", string(snapshot.Status)),
		zap.Int("bytes_written", snapshot.BytesWritten),
	)
	utils.SuccessResponse(c, http.StatusCreated, "Snapshot captured", snapshot)
}

// ListSnapshots lists snapshot records
// @Summary List snapshots
// @Description Get snapshot records with status filtering and pagination
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, TRANSFERRING, COMPLETED, PARTIAL, FAILED)
// @Param limit query int false "Items per page" default(50)
// @Param offset query int false "Offset into the result set" default(0)
// @Success 200 {object} utils.APIResponse{data=object{snapshots=[]model.Snapshot,total=int}} "Snapshots retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /snapshots [get]
func (h *SnapshotHandler) ListSnapshots(c *gin.Context) {
	filter := &model.SnapshotListFilter{}

	if status := c.Query("status"); status != "" {
		filter.Status = model.SnapshotStatus(status)
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= 200 {
			filter.Limit = l
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	snapshots, total, err := h.cameraService.ListSnapshots(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list snapshots", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Snapshots retrieved", gin.H{
		"snapshots": snapshots,
		"total":     total,
	})
}

// GetStats aggregates snapshot counters
// @Summary Snapshot statistics
// @Description Aggregate snapshot counts and stored bytes by status
// @Tags Snapshots
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=repository.SnapshotStats} "Statistics retrieved"
// @Router /snapshots/stats [get]
func (h *SnapshotHandler) GetStats(c *gin.Context) {
	stats, err := h.cameraService.SnapshotStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get snapshot stats", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get snapshot stats", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved", stats)
}

// GetSnapshot retrieves one snapshot record
// @Summary Get snapshot
// @Description Get one snapshot record by id
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} utils.APIResponse{data=model.Snapshot} "Snapshot retrieved"
// @Failure 404 {object} utils.APIResponse "Snapshot not found"
// @Router /snapshots/{id} [get]
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot id", err)
		return
	}

	snapshot, err := h.cameraService.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Snapshot not found", err)
			return
		}
		h.logger.Error("Failed to get snapshot", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get snapshot", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Snapshot retrieved", snapshot)
}

// DownloadImage streams the stored JPEG
// @Summary Download snapshot image
// @Description Stream the stored JPEG of a snapshot
// @Tags Snapshots
// @Produce image/jpeg
// @Param id path string true "Snapshot ID"
// @Success 200 {file} file "Image bytes"
// @Failure 404 {object} utils.APIResponse "Snapshot or image not found"
// @Router /snapshots/{id}/image [get]
func (h *SnapshotHandler) DownloadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot id", err)
		return
	}

	reader, size, fileName, err := h.cameraService.OpenImage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Image not found", err)
			return
		}
		h.logger.Error("Failed to open snapshot image", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to open snapshot image", err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, size, "image/jpeg", reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", fileName),
	})
}

// DeleteSnapshot removes a snapshot record and its image
// @Summary Delete snapshot
// @Description Delete a snapshot record and its stored image
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} utils.APIResponse "Snapshot deleted"
// @Failure 404 {object} utils.APIResponse "Snapshot not found"
// @Router /snapshots/{id} [delete]
func (h *SnapshotHandler) DeleteSnapshot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot id", err)
		return
	}

	if err := h.cameraService.DeleteSnapshot(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Snapshot not found", err)
			return
		}
		h.logger.Error("Failed to delete snapshot", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete snapshot", err)
		return
	}

	h.logger.Info("Snapshot deleted", zap.String("snapshot_id", id.String()))
	utils.SuccessResponse(c, http.StatusOK, "Snapshot deleted", nil)
}
