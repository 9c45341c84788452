// internal/driver/geolux/transfer_test.go
package geolux

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"
)

// testImage builds a minimal JPEG-shaped byte string: start marker, n filler
// bytes, end marker.
func testImage(filler int) []byte {
	img := []byte{0xFF, 0xD8}
	for i := 0; i < filler; i++ {
		img = append(img, byte(i%0x70)+1)
	}
	return append(img, 0xFF, 0xD9)
}

func withHeader(payload []byte) []byte {
	return append([]byte{0xAA, 0xBB}, payload...)
}

func TestTransferSingleChunkEndsOnMarker(t *testing.T) {
	img := testImage(16)
	cam, _ := newTestCamera(step{
		want:  "#get_image=0,34,RAW\r\n",
		reads: [][]byte{withHeader(img)},
	})
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, len(img), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != len(img) {
		t.Fatalf("wrote %d bytes, want %d", n, len(img))
	}
	if !bytes.Equal(out.Bytes(), img) {
		t.Fatalf("image corrupted: %x", out.Bytes())
	}
	if !stats.EOFMarker || stats.TimedOut {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Chunks != 1 {
		t.Fatalf("chunks = %d, want 1", stats.Chunks)
	}
}

func TestTransferMarkerSplitAcrossReads(t *testing.T) {
	// The marker bytes land in separate Read calls of the same response.
	img := testImage(8)
	wire := withHeader(img)
	split := len(wire) - 1 // cut between FF and D9
	cam, _ := newTestCamera(step{
		want:  "#get_image=0,",
		reads: [][]byte{wire[:split], wire[split:]},
	})
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, len(img), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != len(img) {
		t.Fatalf("wrote %d bytes, want %d", n, len(img))
	}
	if !stats.EOFMarker {
		t.Fatal("end marker not recognized across read boundary")
	}
}

func TestTransferMarkerSplitAcrossChunks(t *testing.T) {
	// The camera goes quiet between FF and D9, so the transfer re-requests
	// from the next unseen offset and the continuation carries its own two
	// header bytes. The marker must still be recognized across the gap.
	img := testImage(8) // 12 bytes
	split := len(img) - 1
	cam, _ := newTestCamera(
		step{want: "#get_image=0,26,RAW\r\n", reads: [][]byte{withHeader(img[:split])}},
		step{want: "#get_image=11,15,RAW\r\n", reads: [][]byte{withHeader(img[split:])}},
	)
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, len(img), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != len(img) {
		t.Fatalf("wrote %d bytes, want %d", n, len(img))
	}
	if !bytes.Equal(out.Bytes(), img) {
		t.Fatalf("image corrupted: %x", out.Bytes())
	}
	if !stats.EOFMarker {
		t.Fatal("end marker not recognized across chunk boundary")
	}
	if stats.Chunks != 2 {
		t.Fatalf("chunks = %d, want 2", stats.Chunks)
	}
}

func TestTransferMultipleChunksAdvanceOffset(t *testing.T) {
	img := testImage(16) // 20 bytes
	cam, _ := newTestCamera(
		step{want: "#get_image=0,16,RAW\r\n", reads: [][]byte{withHeader(img[:16])}},
		step{want: "#get_image=16,16,RAW\r\n", reads: [][]byte{withHeader(img[16:])}},
	)
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, len(img), 16)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != len(img) {
		t.Fatalf("wrote %d bytes, want %d", n, len(img))
	}
	if !bytes.Equal(out.Bytes(), img) {
		t.Fatalf("image corrupted: %x", out.Bytes())
	}
	if stats.Chunks != 2 {
		t.Fatalf("chunks = %d, want 2", stats.Chunks)
	}
}

func TestTransferZeroPaddingEndsImage(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	wire := withHeader(append(append([]byte{}, payload...), make([]byte, trailerSlack)...))
	cam, _ := newTestCamera(step{
		want:  "#get_image=0,",
		reads: [][]byte{wire},
	})
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, len(payload), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Fatalf("payload corrupted: %x", out.Bytes())
	}
	if stats.EOFMarker {
		t.Fatal("no marker was sent, EOFMarker must be false")
	}
}

func TestTransferBudgetExpires(t *testing.T) {
	cfg := testConfig()
	cfg.TransferBudget = time.Nanosecond
	cam := New(&scriptConn{}, cfg, zap.NewNop())
	var out bytes.Buffer
	n, stats, err := cam.TransferImage(&out, 1000, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 0 {
		t.Fatalf("wrote %d bytes, want 0", n)
	}
	if !stats.TimedOut {
		t.Fatal("TimedOut not set")
	}
}

func TestTransferRetriesAreBounded(t *testing.T) {
	cam, _ := newTestCamera()
	var out bytes.Buffer
	_, stats, err := cam.TransferImage(&out, 100, 0)
	if err != ErrNoResponse {
		t.Fatalf("got err %v, want ErrNoResponse", err)
	}
	if stats.Retries != testConfig().ChunkRetries+1 {
		t.Fatalf("retries = %d, want %d", stats.Retries, testConfig().ChunkRetries+1)
	}
}
