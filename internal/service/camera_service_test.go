// internal/service/camera_service_test.go
package service

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"camera-service/internal/config"
	"camera-service/internal/driver/geolux"
	"camera-service/internal/model"
	"camera-service/internal/protocol"
	"camera-service/internal/repository"
	"camera-service/internal/storage"
)

// wireStep is one command/response exchange on the fake link
type wireStep struct {
	want  string
	reads [][]byte
}

// fakeLink scripts the camera side of the link. Replies for a step flow
// only after the expected command substring has been written.
type fakeLink struct {
	mu      sync.Mutex
	steps   []wireStep
	written bytes.Buffer
	mark    int
	armed   bool
	timeout time.Duration
	open    bool
}

func (f *fakeLink) Open(ctx context.Context) error { f.open = true; return nil }
func (f *fakeLink) Close() error                   { f.open = false; return nil }
func (f *fakeLink) IsOpen() bool                   { return f.open }
func (f *fakeLink) Type() protocol.ConnectionType  { return protocol.ConnectionTypeSerial }
func (f *fakeLink) Stats() protocol.LinkStats {
	return protocol.LinkStats{IsConnected: f.open}
}

func (f *fakeLink) SetReadTimeout(d time.Duration) error {
	f.mu.Lock()
	f.timeout = d
	f.mu.Unlock()
	return nil
}

func (f *fakeLink) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written.Write(p)
	f.arm()
	return len(p), nil
}

func (f *fakeLink) arm() {
	if f.armed || len(f.steps) == 0 {
		return
	}
	if bytes.Contains(f.written.Bytes()[f.mark:], []byte(f.steps[0].want)) {
		f.armed = true
		f.mark = f.written.Len()
	}
}

func (f *fakeLink) Read(p []byte) (int, error) {
	f.mu.Lock()
	if !f.armed || len(f.steps) == 0 {
		d := f.timeout
		f.mu.Unlock()
		sleepOut(d)
		return 0, nil
	}
	step := &f.steps[0]
	if len(step.reads) == 0 {
		f.steps = f.steps[1:]
		f.armed = false
		f.arm()
		d := f.timeout
		f.mu.Unlock()
		sleepOut(d)
		return 0, nil
	}
	chunk := step.reads[0]
	step.reads = step.reads[1:]
	if chunk == nil {
		d := f.timeout
		f.mu.Unlock()
		sleepOut(d)
		return 0, nil
	}
	n := copy(p, chunk)
	if n < len(chunk) {
		step.reads = append([][]byte{chunk[n:]}, step.reads...)
	}
	f.mu.Unlock()
	return n, nil
}

func sleepOut(d time.Duration) {
	if d > 50*time.Millisecond {
		d = 50 * time.Millisecond
	}
	time.Sleep(d)
}

// memoryRepo keeps snapshot records in a map
type memoryRepo struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]*model.Snapshot
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{snapshots: make(map[uuid.UUID]*model.Snapshot)}
}

func (r *memoryRepo) Create(ctx context.Context, s *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.snapshots[s.ID] = &cp
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memoryRepo) Update(ctx context.Context, s *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	r.snapshots[s.ID] = &cp
	return nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SnapshotStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.snapshots, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, filter *model.SnapshotListFilter) ([]*model.Snapshot, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Snapshot
	for _, s := range r.snapshots {
		if filter != nil && filter.Status != "" && s.Status != filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memoryRepo) DeleteOlderThan(ctx context.Context, before time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for id, s := range r.snapshots {
		if s.CreatedAt.Before(before) {
			if s.FilePath != "" {
				paths = append(paths, s.FilePath)
			}
			delete(r.snapshots, id)
		}
	}
	return paths, nil
}

func (r *memoryRepo) GetStats(ctx context.Context) (*repository.SnapshotStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.SnapshotStats{ByStatus: make(map[model.SnapshotStatus]int)}
	for _, s := range r.snapshots {
		stats.Total++
		stats.TotalBytes += int64(s.BytesWritten)
		stats.ByStatus[s.Status]++
	}
	return stats, nil
}

// eventRecorder collects published events
type eventRecorder struct {
	mu     sync.Mutex
	events []model.CameraEvent
}

func (er *eventRecorder) PublishCameraEvent(event model.CameraEvent) {
	er.mu.Lock()
	defer er.mu.Unlock()
	er.events = append(er.events, event)
}

func (er *eventRecorder) types() []model.EventType {
	er.mu.Lock()
	defer er.mu.Unlock()
	out := make([]model.EventType, 0, len(er.events))
	for _, e := range er.events {
		out = append(out, e.EventType)
	}
	return out
}

func testServiceConfig(t *testing.T) *config.Config {
	return &config.Config{
		Camera: config.CameraConfig{
			ResponseTimeout:  60 * time.Millisecond,
			ByteTimeout:      5 * time.Millisecond,
			ChunkReadTimeout: 5 * time.Millisecond,
			TransferBudget:   2 * time.Second,
			ChunkSize:        64,
			ChunkRetries:     2,
			SnapshotTimeout:  time.Second,
			StatusPoll:       10 * time.Millisecond,
		},
		Storage: config.StorageConfig{ImageDir: t.TempDir()},
	}
}

func newTestService(t *testing.T, steps []wireStep) (*CameraService, *memoryRepo, *eventRecorder, *fakeLink) {
	t.Helper()
	cfg := testServiceConfig(t)

	link := &fakeLink{steps: steps, open: true}
	camCfg := geolux.Config{
		ResponseTimeout:  cfg.Camera.ResponseTimeout,
		ByteTimeout:      cfg.Camera.ByteTimeout,
		ChunkReadTimeout: cfg.Camera.ChunkReadTimeout,
		TransferBudget:   cfg.Camera.TransferBudget,
		ChunkSize:        cfg.Camera.ChunkSize,
		ChunkRetries:     cfg.Camera.ChunkRetries,
	}
	camera := geolux.New(link, camCfg, zap.NewNop())

	store, err := storage.NewImageStore(cfg.Storage.ImageDir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}

	repo := newMemoryRepo()
	events := &eventRecorder{}
	svc := NewCameraService(camera, link, store, repo, events, cfg, zap.NewNop())
	return svc, repo, events, link
}

// jpegImage builds a well formed payload with the closing marker
func jpegImage(n int) []byte {
	img := []byte{0xFF, 0xD8}
	for len(img) < n-2 {
		img = append(img, 0x5A)
	}
	return append(img, 0xFF, 0xD9)
}

func TestCaptureHappyPath(t *testing.T) {
	image := jpegImage(20)
	payload := append([]byte{0xAA, 0xBB}, image...)

	steps := []wireStep{
		{want: "#take_snapshot\r\n", reads: [][]byte{[]byte("OK\r\n")}},
		{want: "#get_status\r\n", reads: [][]byte{[]byte("READY,20\r\n")}},
		{want: "#get_status\r\n", reads: [][]byte{[]byte("READY,20\r\n")}},
		{want: "#get_image=0,34,RAW\r\n", reads: [][]byte{payload}},
	}
	svc, repo, events, _ := newTestService(t, steps)

	snapshot, err := svc.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if snapshot.Status != model.SnapshotStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", snapshot.Status)
	}
	if snapshot.BytesWritten != 20 {
		t.Fatalf("bytes_written = %d, want 20", snapshot.BytesWritten)
	}
	if !snapshot.EOFMarker {
		t.Fatal("expected eof marker")
	}

	data, err := os.ReadFile(snapshot.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, image) {
		t.Fatalf("stored image differs: got %v want %v", data, image)
	}

	stored, err := repo.GetByID(context.Background(), snapshot.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != model.SnapshotStatusCompleted {
		t.Fatalf("stored status = %s, want COMPLETED", stored.Status)
	}

	got := events.types()
	wantOrder := []model.EventType{
		model.EventSnapshotStarted,
		model.EventTransferStarted,
		model.EventTransferCompleted,
	}
	if len(got) != len(wantOrder) {
		t.Fatalf("events = %v, want %v", got, wantOrder)
	}
	for i, w := range wantOrder {
		if got[i] != w {
			t.Fatalf("event[%d] = %s, want %s", i, got[i], w)
		}
	}
}

func TestCaptureBusyCamera(t *testing.T) {
	steps := []wireStep{
		{want: "#take_snapshot\r\n", reads: [][]byte{[]byte("BUSY\r\n")}},
	}
	svc, repo, _, _ := newTestService(t, steps)

	_, err := svc.Capture(context.Background())
	if err != ErrCameraBusy {
		t.Fatalf("err = %v, want ErrCameraBusy", err)
	}
	if _, total, _ := repo.List(context.Background(), nil); total != 0 {
		t.Fatalf("no record should exist for a busy camera, got %d", total)
	}
}

func TestCaptureSilentCameraFailsRecord(t *testing.T) {
	// The capture is acknowledged but the camera never reports READY.
	steps := []wireStep{
		{want: "#take_snapshot\r\n", reads: [][]byte{[]byte("OK\r\n")}},
	}
	svc, repo, events, _ := newTestService(t, steps)

	_, err := svc.Capture(context.Background())
	if err == nil {
		t.Fatal("expected error for a silent camera")
	}

	snapshots, total, _ := repo.List(context.Background(), nil)
	if total != 1 {
		t.Fatalf("record count = %d, want 1", total)
	}
	if snapshots[0].Status != model.SnapshotStatusFailed {
		t.Fatalf("status = %s, want FAILED", snapshots[0].Status)
	}

	got := events.types()
	if len(got) == 0 || got[len(got)-1] != model.EventTransferFailed {
		t.Fatalf("last event = %v, want TRANSFER_FAILED", got)
	}
}

func TestDeleteSnapshotRemovesImage(t *testing.T) {
	image := jpegImage(20)
	payload := append([]byte{0xAA, 0xBB}, image...)
	steps := []wireStep{
		{want: "#take_snapshot\r\n", reads: [][]byte{[]byte("OK\r\n")}},
		{want: "#get_status\r\n", reads: [][]byte{[]byte("READY,20\r\n")}},
		{want: "#get_status\r\n", reads: [][]byte{[]byte("READY,20\r\n")}},
		{want: "#get_image=0,34,RAW\r\n", reads: [][]byte{payload}},
	}
	svc, _, _, _ := newTestService(t, steps)

	snapshot, err := svc.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if err := svc.DeleteSnapshot(context.Background(), snapshot.ID); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := os.Stat(snapshot.FilePath); !os.IsNotExist(err) {
		t.Fatalf("image file still present: %v", err)
	}
	if _, err := svc.GetSnapshot(context.Background(), snapshot.ID); err != repository.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCleanupOlderThanRemovesRecordsAndFiles(t *testing.T) {
	svc, repo, _, _ := newTestService(t, nil)

	makeSnapshot := func(age time.Duration) *model.Snapshot {
		id := uuid.New()
		fileName := svc.store.FileName(id, time.Now())
		w, err := svc.store.Create(fileName)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		w.Write([]byte{0xFF, 0xD8, 0xFF, 0xD9})
		path, err := w.Commit()
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		s := &model.Snapshot{
			ID:        id,
			Status:    model.SnapshotStatusCompleted,
			FileName:  fileName,
			FilePath:  path,
			CreatedAt: time.Now().Add(-age),
		}
		if err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("repo.Create: %v", err)
		}
		return s
	}

	expired := makeSnapshot(48 * time.Hour)
	fresh := makeSnapshot(time.Hour)

	deleted, err := svc.CleanupOlderThan(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("CleanupOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(expired.FilePath); !os.IsNotExist(err) {
		t.Fatalf("expired image still present: %v", err)
	}
	if _, err := os.Stat(fresh.FilePath); err != nil {
		t.Fatalf("fresh image missing: %v", err)
	}
	if _, err := svc.GetSnapshot(context.Background(), expired.ID); err != repository.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetSnapshot(context.Background(), fresh.ID); err != nil {
		t.Fatalf("fresh snapshot missing: %v", err)
	}
}

func TestSettingsFromInfoDump(t *testing.T) {
	dump := "#device_type:HydroCAM\r" +
		"#resolution:1920x1080\r" +
		"#quality:80\r" +
		"#night_mode:auto\r" +
		"#auto_snapshot_interval:off\r" +
		"#focus_position:410\r"
	steps := []wireStep{
		{want: "#get_info\r\n", reads: [][]byte{[]byte(dump)}},
	}
	svc, _, _, _ := newTestService(t, steps)

	settings, err := svc.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.Resolution != "1920x1080" {
		t.Fatalf("resolution = %q", settings.Resolution)
	}
	if settings.Quality == nil || *settings.Quality != 80 {
		t.Fatalf("quality = %v, want 80", settings.Quality)
	}
	if settings.NightMode != "auto" {
		t.Fatalf("night_mode = %q", settings.NightMode)
	}
	if settings.AutoSnapshotInterval == nil || *settings.AutoSnapshotInterval != 0 {
		t.Fatalf("auto_snapshot_interval = %v, want 0", settings.AutoSnapshotInterval)
	}
	if settings.FocusPosition == nil || *settings.FocusPosition != 410 {
		t.Fatalf("focus_position = %v, want 410", settings.FocusPosition)
	}
}

func TestUpdateSettingsStopsAtFirstFailure(t *testing.T) {
	steps := []wireStep{
		{want: "#set_quality=85\r\n", reads: [][]byte{[]byte("OK\r\n")}},
		{want: "#set_night_mode=night\r\n", reads: [][]byte{[]byte("ERR\r\n")}},
	}
	svc, _, events, _ := newTestService(t, steps)

	quality := 85
	night := "night"
	err := svc.UpdateSettings(context.Background(), &model.UpdateSettingsRequest{
		Quality:   &quality,
		NightMode: &night,
	})
	if err == nil {
		t.Fatal("expected error from rejected setting")
	}
	// The quality change went through before night mode failed, so no
	// settings event must have fired.
	for _, e := range events.types() {
		if e == model.EventSettingsUpdated {
			t.Fatal("settings event fired despite failure")
		}
	}
}
