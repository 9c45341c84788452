// internal/driver/geolux/status_test.go
package geolux

import (
	"context"
	"testing"
	"time"
)

func TestGetStatusReady(t *testing.T) {
	cam, conn := newTestCamera(step{
		want:  "#get_status\r\n",
		reads: [][]byte{[]byte("READY,51234\r\n")},
	})
	st, err := cam.GetStatus()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusOK {
		t.Fatalf("got %v, want StatusOK", st)
	}
	if got := conn.written.String(); got != "#get_status\r\n" {
		t.Fatalf("wrote %q", got)
	}
}

func TestGetStatusBusy(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#get_status\r\n",
		reads: [][]byte{[]byte("BUSY\r\n")},
	})
	st, err := cam.GetStatus()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusBusy {
		t.Fatalf("got %v, want StatusBusy", st)
	}
}

func TestImageSizeFromStatusLine(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#get_status\r\n",
		reads: [][]byte{[]byte("READY,51234\r\n")},
	})
	size, err := cam.ImageSize()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if size != 51234 {
		t.Fatalf("got %d, want 51234", size)
	}
}

func TestImageSizeNotReady(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#get_status\r\n",
		reads: [][]byte{[]byte("NONE\r\n")},
	})
	size, err := cam.ImageSize()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if size != 0 {
		t.Fatalf("got %d, want 0", size)
	}
}

func TestImageSizeFieldOverflow(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#get_status\r\n",
		reads: [][]byte{[]byte("READY,999999999999999\r\n")},
	})
	if _, err := cam.ImageSize(); err != ErrFieldOverflow {
		t.Fatalf("got err %v, want ErrFieldOverflow", err)
	}
}

func TestImageSizeSilence(t *testing.T) {
	cam, _ := newTestCamera()
	if _, err := cam.ImageSize(); err != ErrNoResponse {
		t.Fatalf("got err %v, want ErrNoResponse", err)
	}
}

func TestWaitReadyPollsUntilReady(t *testing.T) {
	cam, _ := newTestCamera(
		step{want: "#get_status\r\n", reads: [][]byte{[]byte("BUSY\r\n")}},
		step{want: "#get_status\r\n", reads: [][]byte{[]byte("BUSY\r\n")}},
		step{want: "#get_status\r\n", reads: [][]byte{[]byte("READY,100\r\n")}},
	)
	st, err := cam.WaitReady(context.Background(), time.Second, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusOK {
		t.Fatalf("got %v, want StatusOK", st)
	}
}

func TestWaitReadyHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cam, _ := newTestCamera(
		step{want: "#get_status\r\n", reads: [][]byte{[]byte("BUSY\r\n")}},
	)
	if _, err := cam.WaitReady(ctx, time.Second, time.Millisecond); err != context.Canceled {
		t.Fatalf("got err %v, want context.Canceled", err)
	}
}

func TestSleepSendsTimeout(t *testing.T) {
	cam, conn := newTestCamera(step{
		want:  "#sleep=300\r\n",
		reads: [][]byte{[]byte("OK\r\n")},
	})
	st, err := cam.Sleep(300)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusOK {
		t.Fatalf("got %v, want StatusOK", st)
	}
	if got := conn.written.String(); got != "#sleep=300\r\n" {
		t.Fatalf("wrote %q", got)
	}
}

func TestRestartWaitsForBanner(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#reset\r\n",
		reads: [][]byte{[]byte("OK\r\n"), []byte("Geolux HydroCAM v2.1.5\r\n")},
	})
	if err := cam.Restart(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cam.ResetSeen() {
		t.Fatal("solicited reboot must not latch the reset flag")
	}
}
