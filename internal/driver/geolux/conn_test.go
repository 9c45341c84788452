// internal/driver/geolux/conn_test.go
package geolux

import (
	"bytes"
	"time"

	"go.uber.org/zap"
)

// step scripts one command exchange: once want has been written to the link,
// the reads flow back one Read call at a time. A nil read entry simulates a
// Read that hits its deadline with no data.
type step struct {
	want  string
	reads [][]byte
}

// scriptConn plays a canned half-duplex conversation. Reads block (by
// sleeping out the configured deadline) until the current step's command has
// been sent, mirroring how a real camera only talks when spoken to.
type scriptConn struct {
	steps   []step
	written bytes.Buffer
	timeout time.Duration
	armed   bool
	mark    int
}

func (s *scriptConn) Write(p []byte) (int, error) {
	s.written.Write(p)
	s.arm()
	return len(p), nil
}

func (s *scriptConn) arm() {
	if s.armed || len(s.steps) == 0 {
		return
	}
	if bytes.Contains(s.written.Bytes()[s.mark:], []byte(s.steps[0].want)) {
		s.armed = true
		s.mark = s.written.Len()
	}
}

func (s *scriptConn) Read(p []byte) (int, error) {
	if !s.armed || len(s.steps) == 0 {
		s.sleepOut()
		return 0, nil
	}
	st := &s.steps[0]
	if len(st.reads) == 0 {
		s.steps = s.steps[1:]
		s.armed = false
		s.arm()
		s.sleepOut()
		return 0, nil
	}
	chunk := st.reads[0]
	st.reads = st.reads[1:]
	if chunk == nil {
		s.sleepOut()
		return 0, nil
	}
	n := copy(p, chunk)
	if n < len(chunk) {
		st.reads = append([][]byte{chunk[n:]}, st.reads...)
	}
	return n, nil
}

func (s *scriptConn) SetReadTimeout(d time.Duration) error {
	s.timeout = d
	return nil
}

func (s *scriptConn) sleepOut() {
	d := s.timeout
	if d > 50*time.Millisecond {
		d = 50 * time.Millisecond
	}
	if d > 0 {
		time.Sleep(d)
	}
}

func testConfig() Config {
	return Config{
		ResponseTimeout:  60 * time.Millisecond,
		ByteTimeout:      5 * time.Millisecond,
		ChunkReadTimeout: 5 * time.Millisecond,
		TransferBudget:   2 * time.Second,
		ChunkSize:        64,
		ChunkRetries:     2,
	}
}

func newTestCamera(steps ...step) (*Camera, *scriptConn) {
	conn := &scriptConn{steps: steps}
	return New(conn, testConfig(), zap.NewNop()), conn
}
