// internal/service/camera_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"camera-service/internal/config"
	"camera-service/internal/driver/geolux"
	"camera-service/internal/metrics"
	"camera-service/internal/model"
	"camera-service/internal/protocol"
	"camera-service/internal/repository"
	"camera-service/internal/storage"
	"camera-service/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCameraBusy is returned when the camera rejects a command with BUSY
var ErrCameraBusy = errors.New("camera is busy")

// EventPublisher receives camera events for distribution to clients
type EventPublisher interface {
	PublishCameraEvent(event model.CameraEvent)
}

// CameraService owns the single camera attached to this host. The serial
// link is half duplex, so every camera operation goes through one mutex and
// API calls that hit the wire queue behind each other.
type CameraService struct {
	camera       *geolux.Camera
	link         protocol.Link
	store        *storage.ImageStore
	snapshotRepo repository.SnapshotRepository
	events       EventPublisher
	config       *config.Config
	logger       *utils.ServiceLogger

	mu sync.Mutex
}

// NewCameraService creates a new camera service instance
func NewCameraService(
	camera *geolux.Camera,
	link protocol.Link,
	store *storage.ImageStore,
	snapshotRepo repository.SnapshotRepository,
	events EventPublisher,
	config *config.Config,
	logger *zap.Logger,
) *CameraService {
	return &CameraService{
		camera:       camera,
		link:         link,
		store:        store,
		snapshotRepo: snapshotRepo,
		events:       events,
		config:       config,
		logger:       utils.NewServiceLogger(logger, "camera-service"),
	}
}

// CameraStatus is the live camera state as reported over the wire
type CameraStatus struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
	ImageSize int    `json:"image_size,omitempty"`
	Reset     bool   `json:"reset,omitempty"`
}

// Status queries the camera state
func (cs *CameraService) Status(ctx context.Context) (*CameraStatus, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	result := &CameraStatus{Connected: cs.link.IsOpen()}
	if !result.Connected {
		result.Status = "DISCONNECTED"
		return result, nil
	}

	size, err := cs.camera.ImageSize()
	if err != nil {
		cs.classifyError(err)
		if errors.Is(err, geolux.ErrNoResponse) {
			result.Status = geolux.StatusNoResponse.String()
			return result, nil
		}
		return nil, fmt.Errorf("failed to query camera status: %w", err)
	}
	if size > 0 {
		result.Status = geolux.StatusOK.String()
		result.ImageSize = size
	} else {
		status, err := cs.camera.GetStatus()
		if err != nil {
			cs.classifyError(err)
			return nil, fmt.Errorf("failed to query camera status: %w", err)
		}
		result.Status = status.String()
	}
	result.Reset = cs.camera.ResetSeen()
	return result, nil
}

// Capture runs a full snapshot cycle: trigger the capture, wait for the
// encoder, pull the image over the link and persist both file and record.
// The camera mutex is held for the whole cycle.
func (cs *CameraService) Capture(ctx context.Context) (*model.Snapshot, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	opLogger := utils.NewOperationLogger(cs.logger.Logger, "snapshot", uuid.New().String())
	opLogger.Start()

	status, err := cs.camera.TakeSnapshot()
	if err != nil {
		cs.classifyError(err)
		metrics.SnapshotsTotal.WithLabelValues(string(model.SnapshotStatusFailed)).Inc()
		opLogger.Error(err)
		return nil, fmt.Errorf("failed to trigger snapshot: %w", err)
	}
	if status == geolux.StatusBusy {
		return nil, ErrCameraBusy
	}
	if status != geolux.StatusOK {
		metrics.SnapshotsTotal.WithLabelValues(string(model.SnapshotStatusFailed)).Inc()
		return nil, fmt.Errorf("snapshot command rejected: %s", status)
	}

	now := time.Now()
	snapshot := &model.Snapshot{
		ID:        uuid.New(),
		Status:    model.SnapshotStatusPending,
		ErrorInfo: model.JSONObject{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	snapshot.FileName = cs.store.FileName(snapshot.ID, now)

	if err := cs.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to create snapshot record: %w", err)
	}
	cs.publish(model.EventSnapshotStarted, &snapshot.ID, "INFO", model.JSONObject{
		"snapshot_id": snapshot.ID,
	})

	if _, err := cs.camera.WaitReady(ctx, cs.config.Camera.SnapshotTimeout, cs.config.Camera.StatusPoll); err != nil {
		return nil, cs.failCapture(ctx, snapshot, opLogger, fmt.Errorf("camera did not become ready: %w", err))
	}

	imageSize, err := cs.camera.ImageSize()
	if err != nil {
		return nil, cs.failCapture(ctx, snapshot, opLogger, fmt.Errorf("failed to read image size: %w", err))
	}
	snapshot.DeclaredSize = imageSize

	writer, err := cs.store.Create(snapshot.FileName)
	if err != nil {
		return nil, cs.failCapture(ctx, snapshot, opLogger, err)
	}

	snapshot.Status = model.SnapshotStatusTransferring
	snapshot.UpdatedAt = time.Now()
	if err := cs.snapshotRepo.Update(ctx, snapshot); err != nil {
		cs.logger.Error("Failed to update snapshot record", zap.Error(err))
	}
	cs.publish(model.EventTransferStarted, &snapshot.ID, "INFO", model.JSONObject{
		"snapshot_id":   snapshot.ID,
		"declared_size": imageSize,
	})

	pw := &progressWriter{
		w:        writer,
		declared: imageSize,
		notify:   cs.transferProgress(snapshot.ID, imageSize, opLogger),
	}

	written, stats, err := cs.camera.TransferImage(pw, imageSize, cs.config.Camera.ChunkSize)
	snapshot.BytesWritten = written
	snapshot.Chunks = stats.Chunks
	snapshot.Retries = stats.Retries
	snapshot.MaxResponse = stats.MaxResponse.Microseconds()
	snapshot.MaxByteGap = stats.MaxByteGap.Microseconds()
	snapshot.ElapsedMS = stats.Elapsed.Milliseconds()
	snapshot.EOFMarker = stats.EOFMarker

	metrics.TransferChunks.Add(float64(stats.Chunks))
	metrics.TransferBytes.Add(float64(stats.BytesWritten))
	metrics.TransferRetries.Add(float64(stats.Retries))
	metrics.TransferDuration.Observe(stats.Elapsed.Seconds())
	if stats.TimedOut {
		metrics.TransferTimeouts.Inc()
	}

	if err != nil {
		writer.Abort()
		return nil, cs.failCapture(ctx, snapshot, opLogger, fmt.Errorf("image transfer failed: %w", err))
	}

	path, err := writer.Commit()
	if err != nil {
		return nil, cs.failCapture(ctx, snapshot, opLogger, err)
	}
	snapshot.FilePath = path

	if stats.EOFMarker && !stats.TimedOut {
		snapshot.Status = model.SnapshotStatusCompleted
	} else {
		snapshot.Status = model.SnapshotStatusPartial
	}
	snapshot.UpdatedAt = time.Now()
	metrics.SnapshotsTotal.WithLabelValues(string(snapshot.Status)).Inc()

	if err := cs.snapshotRepo.Update(ctx, snapshot); err != nil {
		cs.logger.Error("Failed to update snapshot record", zap.Error(err))
	}

	cs.publish(model.EventTransferCompleted, &snapshot.ID, "INFO", model.JSONObject{
		"snapshot_id":   snapshot.ID,
		"status":        snapshot.Status,
		"bytes_written": written,
		"chunks":        stats.Chunks,
		"elapsed_ms":    snapshot.ElapsedMS,
		"eof_marker":    stats.EOFMarker,
	})

	opLogger.Success(
		zap.Int("bytes_written", written),
		zap.String("status", string(snapshot.Status)),
	)
	return snapshot, nil
}

// failCapture marks the snapshot record failed and reports the error
func (cs *CameraService) failCapture(ctx context.Context, snapshot *model.Snapshot, opLogger *utils.OperationLogger, err error) error {
	cs.classifyError(err)
	snapshot.Status = model.SnapshotStatusFailed
	snapshot.ErrorInfo = model.JSONObject{
		"last_error": err.Error(),
		"error_time": time.Now(),
	}
	snapshot.UpdatedAt = time.Now()
	metrics.SnapshotsTotal.WithLabelValues(string(model.SnapshotStatusFailed)).Inc()

	if updateErr := cs.snapshotRepo.Update(ctx, snapshot); updateErr != nil {
		cs.logger.Error("Failed to update snapshot record", zap.Error(updateErr))
	}
	cs.publish(model.EventTransferFailed, &snapshot.ID, "ERROR", model.JSONObject{
		"snapshot_id": snapshot.ID,
		"error":       err.Error(),
	})
	opLogger.Error(err)
	return err
}

// classifyError feeds the command level counters
func (cs *CameraService) classifyError(err error) {
	switch {
	case errors.Is(err, geolux.ErrDeviceReset):
		metrics.DeviceResets.Inc()
		cs.publish(model.EventCameraReset, nil, "WARNING", model.JSONObject{
			"error": err.Error(),
		})
	case errors.Is(err, geolux.ErrNoResponse):
		metrics.CommandTimeouts.Inc()
	}
}

// transferProgress builds the per-milestone progress callback
func (cs *CameraService) transferProgress(id uuid.UUID, declared int, opLogger *utils.OperationLogger) func(written int) {
	return func(written int) {
		percent := 0.0
		if declared > 0 {
			percent = float64(written) / float64(declared) * 100
		}
		opLogger.Progress("Transfer progress", percent, zap.Int("bytes_written", written))
		cs.publish(model.EventTransferProgress, &id, "INFO", model.JSONObject{
			"snapshot_id":   id,
			"declared_size": declared,
			"bytes_written": written,
			"percent":       percent,
		})
	}
}

// progressNotifyStep is how many bytes between progress events
const progressNotifyStep = 32 * 1024

// progressWriter counts image bytes and fires the notify callback at
// fixed byte milestones
type progressWriter struct {
	w        io.Writer
	declared int
	written  int
	lastMark int
	notify   func(written int)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += n
	if pw.notify != nil && pw.written-pw.lastMark >= progressNotifyStep {
		pw.lastMark = pw.written
		pw.notify(pw.written)
	}
	return n, err
}

// Info queries the camera identity and the raw parameter dump
func (cs *CameraService) Info(ctx context.Context) (*model.CameraInfo, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dump, err := cs.camera.Info()
	if err != nil {
		cs.classifyError(err)
		return nil, fmt.Errorf("failed to read camera info: %w", err)
	}

	info := &model.CameraInfo{Raw: dump}
	if v, ok := dump["device_type"]; ok && len(v) > 0 {
		info.DeviceType = v[0]
	}
	if v, ok := dump["firmware"]; ok && len(v) > 0 {
		info.Firmware = v[0]
	}
	if v, ok := dump["serial_id"]; ok && len(v) > 0 {
		info.SerialID = v[0]
	}
	return info, nil
}

// Settings reads the adjustable parameters from the camera. One get_info
// round trip covers all of them.
func (cs *CameraService) Settings(ctx context.Context) (*model.CameraSettings, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dump, err := cs.camera.Info()
	if err != nil {
		cs.classifyError(err)
		return nil, fmt.Errorf("failed to read camera settings: %w", err)
	}

	settings := &model.CameraSettings{
		Resolution: dumpString(dump, "resolution"),
		NightMode:  dumpString(dump, "night_mode"),
		IRLEDMode:  dumpString(dump, "ir_led_mode"),
		IRFilter:   dumpString(dump, "ir_filter"),
	}
	settings.Quality = dumpInt(dump, "quality")
	settings.JPEGMaximumSize = dumpInt(dump, "jpeg_maximum_size")
	settings.FocusPosition = dumpInt(dump, "focus_position")
	settings.ZoomPosition = dumpInt(dump, "zoom_position")
	if v := dumpString(dump, "auto_snapshot_interval"); v != "" {
		if v == "off" {
			zero := 0
			settings.AutoSnapshotInterval = &zero
		} else if n, err := strconv.Atoi(v); err == nil {
			settings.AutoSnapshotInterval = &n
		}
	}
	return settings, nil
}

func dumpString(dump map[string][]string, tag string) string {
	if v, ok := dump[tag]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

func dumpInt(dump map[string][]string, tag string) *int {
	if v, ok := dump[tag]; ok && len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil {
			return &n
		}
	}
	return nil
}

// UpdateSettings applies the provided fields in order and stops at the
// first wire failure. Settings already applied stay applied.
func (cs *CameraService) UpdateSettings(ctx context.Context, req *model.UpdateSettingsRequest) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	applied := model.JSONObject{}

	apply := func(name string, fn func() (geolux.Status, error)) error {
		status, err := fn()
		if err != nil {
			cs.classifyError(err)
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
		if status == geolux.StatusBusy {
			return fmt.Errorf("failed to set %s: %w", name, ErrCameraBusy)
		}
		if status != geolux.StatusOK {
			return fmt.Errorf("failed to set %s: camera replied %s", name, status)
		}
		applied[name] = true
		return nil
	}

	var err error
	if req.Resolution != nil {
		err = apply("resolution", func() (geolux.Status, error) {
			return cs.camera.SetResolution(*req.Resolution)
		})
	}
	if err == nil && req.Quality != nil {
		err = apply("quality", func() (geolux.Status, error) {
			return cs.camera.SetQuality(*req.Quality)
		})
	}
	if err == nil && req.JPEGMaximumSize != nil {
		err = apply("jpeg_maximum_size", func() (geolux.Status, error) {
			return cs.camera.SetJPEGMaximumSize(*req.JPEGMaximumSize)
		})
	}
	if err == nil && req.NightMode != nil {
		err = apply("night_mode", func() (geolux.Status, error) {
			return cs.camera.SetNightMode(geolux.NightMode(*req.NightMode))
		})
	}
	if err == nil && req.IRLEDMode != nil {
		err = apply("ir_led_mode", func() (geolux.Status, error) {
			return cs.camera.SetIRLEDMode(geolux.IRLEDMode(*req.IRLEDMode))
		})
	}
	if err == nil && req.AutoSnapshotInterval != nil {
		err = apply("auto_snapshot_interval", func() (geolux.Status, error) {
			return cs.camera.SetAutoSnapshotInterval(*req.AutoSnapshotInterval)
		})
	}
	if err == nil && req.AutofocusX != nil && req.AutofocusY != nil {
		err = apply("autofocus_point", func() (geolux.Status, error) {
			return cs.camera.SetAutofocusPoint(*req.AutofocusX, *req.AutofocusY)
		})
	}
	if err == nil && req.WBOffsetRed != nil && req.WBOffsetGreen != nil && req.WBOffsetBlue != nil {
		err = apply("wb_offset", func() (geolux.Status, error) {
			return cs.camera.SetWhiteBalanceOffset(*req.WBOffsetRed, *req.WBOffsetGreen, *req.WBOffsetBlue)
		})
	}
	if err == nil && req.AutoexposureX != nil && req.AutoexposureY != nil &&
		req.AutoexposureWidth != nil && req.AutoexposureHeight != nil {
		err = apply("autoexposure_region", func() (geolux.Status, error) {
			return cs.camera.SetAutoexposureRegion(
				*req.AutoexposureX, *req.AutoexposureY,
				*req.AutoexposureWidth, *req.AutoexposureHeight,
			)
		})
	}
	if err == nil && req.ColorCorrectionMode != nil {
		err = apply("color_correction_mode", func() (geolux.Status, error) {
			return cs.camera.SetColorCorrectionMode(*req.ColorCorrectionMode)
		})
	}
	if err != nil {
		return err
	}

	if len(applied) > 0 {
		cs.publish(model.EventSettingsUpdated, nil, "INFO", applied)
		cs.logger.Info("Camera settings updated", zap.Any("applied", applied))
	}
	return nil
}

// Autofocus starts an autofocus run
func (cs *CameraService) Autofocus(ctx context.Context) error {
	return cs.simpleCommand("autofocus", func() (geolux.Status, error) {
		return cs.camera.RunAutofocus()
	})
}

// MoveFocus nudges the focus motor
func (cs *CameraService) MoveFocus(ctx context.Context, steps int) error {
	return cs.simpleCommand("move_focus", func() (geolux.Status, error) {
		return cs.camera.MoveFocus(steps)
	})
}

// MoveZoom nudges the zoom motor
func (cs *CameraService) MoveZoom(ctx context.Context, steps int) error {
	return cs.simpleCommand("move_zoom", func() (geolux.Status, error) {
		return cs.camera.MoveZoom(steps)
	})
}

// Sleep puts the camera into low power mode for the given duration
func (cs *CameraService) Sleep(ctx context.Context, seconds int) error {
	return cs.simpleCommand("sleep", func() (geolux.Status, error) {
		return cs.camera.Sleep(seconds)
	})
}

// Restart reboots the camera and waits for it to come back
func (cs *CameraService) Restart(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.camera.Restart(); err != nil {
		cs.classifyError(err)
		return fmt.Errorf("failed to restart camera: %w", err)
	}
	cs.logger.Info("Camera restarted")
	return nil
}

// simpleCommand runs a status-only camera command under the mutex
func (cs *CameraService) simpleCommand(name string, fn func() (geolux.Status, error)) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	start := time.Now()
	status, err := fn()
	if err != nil {
		cs.classifyError(err)
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	if status == geolux.StatusBusy {
		return fmt.Errorf("failed to run %s: %w", name, ErrCameraBusy)
	}
	if status != geolux.StatusOK {
		return fmt.Errorf("failed to run %s: camera replied %s", name, status)
	}
	cs.logger.Debug("Camera command completed",
		zap.String("verb", name),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// GetSnapshot retrieves one snapshot record
func (cs *CameraService) GetSnapshot(ctx context.Context, id uuid.UUID) (*model.Snapshot, error) {
	return cs.snapshotRepo.GetByID(ctx, id)
}

// ListSnapshots retrieves snapshot records with pagination
func (cs *CameraService) ListSnapshots(ctx context.Context, filter *model.SnapshotListFilter) ([]*model.Snapshot, int, error) {
	return cs.snapshotRepo.List(ctx, filter)
}

// SnapshotStats aggregates snapshot counters from the database
func (cs *CameraService) SnapshotStats(ctx context.Context) (*repository.SnapshotStats, error) {
	return cs.snapshotRepo.GetStats(ctx)
}

// DeleteSnapshot removes the record and its image file
func (cs *CameraService) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	snapshot, err := cs.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cs.store.Remove(snapshot.FilePath); err != nil {
		cs.logger.Warn("Failed to remove image file",
			zap.String("path", snapshot.FilePath),
			zap.Error(err),
		)
	}
	return cs.snapshotRepo.Delete(ctx, id)
}

// CleanupOlderThan deletes snapshot records created before the cutoff and
// removes their image files. Returns the number of records deleted.
func (cs *CameraService) CleanupOlderThan(ctx context.Context, before time.Time) (int, error) {
	paths, err := cs.snapshotRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired snapshots: %w", err)
	}
	for _, path := range paths {
		if err := cs.store.Remove(path); err != nil {
			cs.logger.Warn("Failed to remove expired image file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
	if len(paths) > 0 {
		cs.logger.Info("Removed expired snapshots",
			zap.Int("count", len(paths)),
			zap.Time("before", before),
		)
	}
	return len(paths), nil
}

// OpenImage opens the stored image of a snapshot for download
func (cs *CameraService) OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, string, error) {
	snapshot, err := cs.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, "", err
	}
	if snapshot.FilePath == "" {
		return nil, 0, "", repository.ErrNotFound
	}
	r, size, err := cs.store.Open(snapshot.FilePath)
	if err != nil {
		return nil, 0, "", err
	}
	return r, size, snapshot.FileName, nil
}

// LinkStats exposes the byte counters of the serial link
func (cs *CameraService) LinkStats() protocol.LinkStats {
	return cs.link.Stats()
}

// AvailablePorts lists serial ports present on this host
func (cs *CameraService) AvailablePorts() ([]string, error) {
	return protocol.AvailablePorts()
}

// publish hands an event to the bus when one is attached
func (cs *CameraService) publish(eventType model.EventType, snapshotID *uuid.UUID, severity string, data model.JSONObject) {
	if cs.events == nil {
		return
	}
	cs.events.PublishCameraEvent(model.CameraEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		SnapshotID: snapshotID,
		Data:       data,
		Timestamp:  time.Now(),
		Source:     "camera-service",
		Severity:   severity,
	})
}
