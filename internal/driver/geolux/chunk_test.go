// internal/driver/geolux/chunk_test.go
package geolux

import (
	"bytes"
	"testing"
)

func TestImageChunkStripsHeaderBytes(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	wire := append([]byte{0xAA, 0xBB}, payload...)
	cam, conn := newTestCamera(step{
		want:  "#get_image=0,8,RAW\r\n",
		reads: [][]byte{wire},
	})
	buf := make([]byte, 8)
	n, err := cam.ImageChunk(buf, 0, 8)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 8 {
		t.Fatalf("got %d bytes, want 8", n)
	}
	if !bytes.Equal(buf, payload) {
		t.Fatalf("payload mismatch: %x", buf[:n])
	}
	if got := conn.written.String(); got != "#get_image=0,8,RAW\r\n" {
		t.Fatalf("wrote %q", got)
	}
}

func TestImageChunkShortDelivery(t *testing.T) {
	wire := []byte{0xAA, 0xBB, 0x01, 0x02, 0x03}
	cam, _ := newTestCamera(step{
		want:  "#get_image=100,8,RAW\r\n",
		reads: [][]byte{wire},
	})
	buf := make([]byte, 8)
	n, err := cam.ImageChunk(buf, 100, 8)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 3 {
		t.Fatalf("got %d bytes, want 3", n)
	}
}

func TestImageChunkSilence(t *testing.T) {
	cam, _ := newTestCamera()
	buf := make([]byte, 8)
	n, err := cam.ImageChunk(buf, 0, 8)
	if err != ErrNoResponse {
		t.Fatalf("got err %v, want ErrNoResponse", err)
	}
	if n != 0 {
		t.Fatalf("got %d bytes, want 0", n)
	}
}

func TestImageChunkLengthCappedToBuffer(t *testing.T) {
	wire := []byte{0xAA, 0xBB, 0x01, 0x02, 0x03, 0x04}
	cam, conn := newTestCamera(step{
		want:  "#get_image=0,4,RAW\r\n",
		reads: [][]byte{wire},
	})
	buf := make([]byte, 4)
	n, err := cam.ImageChunk(buf, 0, 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 4 {
		t.Fatalf("got %d bytes, want 4", n)
	}
	if got := conn.written.String(); got != "#get_image=0,4,RAW\r\n" {
		t.Fatalf("wrote %q", got)
	}
}
