// internal/driver/geolux/response_test.go
package geolux

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestTakeSnapshotStatusMapping(t *testing.T) {
	cases := []struct {
		reply string
		want  Status
	}{
		{"OK\r\n", StatusOK},
		{"ERR\r\n", StatusError},
		{"BUSY\r\n", StatusBusy},
		{"NONE\r\n", StatusNone},
	}
	for _, tc := range cases {
		cam, conn := newTestCamera(step{
			want:  "#take_snapshot\r\n",
			reads: [][]byte{[]byte(tc.reply)},
		})
		st, err := cam.TakeSnapshot()
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", tc.reply, err)
		}
		if st != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.reply, st, tc.want)
		}
		if !strings.Contains(conn.written.String(), "#take_snapshot\r\n") {
			t.Fatalf("command frame not sent, wrote %q", conn.written.String())
		}
	}
}

func TestResponseSplitAcrossReads(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#take_snapshot\r\n",
		reads: [][]byte{[]byte("O"), nil, []byte("K\r"), []byte("\n")},
	})
	st, err := cam.TakeSnapshot()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusOK {
		t.Fatalf("got %v, want StatusOK", st)
	}
}

func TestResponseIgnoresNulBytes(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#take_snapshot\r\n",
		reads: [][]byte{{0x00, 0x00}, []byte("OK\r\n")},
	})
	st, err := cam.TakeSnapshot()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusOK {
		t.Fatalf("got %v, want StatusOK", st)
	}
}

func TestResponseSilenceIsNoResponse(t *testing.T) {
	cam, _ := newTestCamera()
	st, err := cam.TakeSnapshot()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusNoResponse {
		t.Fatalf("got %v, want StatusNoResponse", st)
	}
}

func TestBootBannerReportsReset(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#take_snapshot\r\n",
		reads: [][]byte{[]byte("Geolux HydroCAM")},
	})
	_, err := cam.TakeSnapshot()
	if err != ErrDeviceReset {
		t.Fatalf("got err %v, want ErrDeviceReset", err)
	}
	if !cam.ResetSeen() {
		t.Fatal("reset not latched")
	}
	if cam.ResetSeen() {
		t.Fatal("reset latch not cleared on read")
	}
}

func TestBannerPrecededByNoise(t *testing.T) {
	cam, _ := newTestCamera(step{
		want:  "#take_snapshot\r\n",
		reads: [][]byte{[]byte("Geo"), []byte("lux Hydro"), []byte("CAM ready\r\n")},
	})
	if _, err := cam.TakeSnapshot(); err != ErrDeviceReset {
		t.Fatalf("got err %v, want ErrDeviceReset", err)
	}
}

func TestResponseMatchesSelfOverlappingReply(t *testing.T) {
	// The terminator overlaps itself inside the reply: the stream ends with
	// NONE\r\n even though the preceding bytes re-enter the pattern.
	cam, _ := newTestCamera(step{
		want:  "#take_snapshot\r\n",
		reads: [][]byte{[]byte("NONONE\r\n")},
	})
	st, err := cam.TakeSnapshot()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st != StatusNone {
		t.Fatalf("got %v, want StatusNone", st)
	}
}

func TestUnmatchedReplyTextIsKept(t *testing.T) {
	conn := &scriptConn{
		steps: []step{{reads: [][]byte{[]byte("garbled?\r\n")}}},
		armed: true,
	}
	cam := New(conn, testConfig(), zap.NewNop())
	rep, err := cam.waitResponse(cam.cfg.ResponseTimeout, statusTerminators...)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.index != 0 {
		t.Fatalf("index = %d, want 0", rep.index)
	}
	if rep.text != "garbled?" {
		t.Fatalf("text = %q, want %q", rep.text, "garbled?")
	}
}

func TestAdvanceRestartsOnBoundaryByte(t *testing.T) {
	// "BUSY" after a partial "BU" mismatch must still match when the
	// mismatching byte is itself the first byte of the terminator.
	m := 0
	for _, b := range []byte("BBUSY") {
		m = advance(m, "BUSY", b)
	}
	if m != len("BUSY") {
		t.Fatalf("progress %d, want full match", m)
	}
}
