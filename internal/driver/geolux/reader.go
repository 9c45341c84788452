// internal/driver/geolux/reader.go
package geolux

import (
	"io"
	"time"
)

// byteReader hands out camera bytes one at a time with a deadline per byte.
// The link may deliver several bytes per Read; the surplus is buffered so a
// deadline only ever applies to an actual wait on the wire.
type byteReader struct {
	conn    Conn
	buf     [256]byte
	pending []byte
}

func newByteReader(conn Conn) *byteReader {
	return &byteReader{conn: conn}
}

// next returns the next byte from the camera, waiting at most wait for it.
// ok is false when the deadline elapsed with nothing to read.
func (r *byteReader) next(wait time.Duration) (b byte, ok bool, err error) {
	if len(r.pending) == 0 {
		if wait <= 0 {
			return 0, false, nil
		}
		if err := r.conn.SetReadTimeout(wait); err != nil {
			return 0, false, err
		}
		n, err := r.conn.Read(r.buf[:])
		if err != nil && err != io.EOF {
			return 0, false, err
		}
		if n == 0 {
			return 0, false, nil
		}
		r.pending = r.buf[:n]
	}
	b = r.pending[0]
	r.pending = r.pending[1:]
	return b, true, nil
}

// discard throws away everything the camera has queued up: the local buffer
// first, then whatever is still trickling in on the wire. The initial wait
// gives a slow sender a chance to start before we conclude the line is idle.
func (r *byteReader) discard() {
	r.pending = nil
	wait := 25 * time.Millisecond
	for {
		if err := r.conn.SetReadTimeout(wait); err != nil {
			return
		}
		n, err := r.conn.Read(r.buf[:])
		if n == 0 || (err != nil && err != io.EOF) {
			return
		}
		wait = 2 * time.Millisecond
	}
}

// findLiteral consumes bytes until the literal has streamed past, or the
// deadline runs out. It matches incrementally, so the literal may arrive
// split across reads.
func (r *byteReader) findLiteral(lit string, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	matched := 0
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		b, ok, err := r.next(remaining)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if b == lit[matched] {
			matched++
			if matched == len(lit) {
				return true, nil
			}
		} else if b == lit[0] {
			matched = 1
		} else {
			matched = 0
		}
	}
}

// readUntil collects bytes into dst until the end byte arrives, dst fills
// up, or the deadline runs out. The end byte is consumed but not stored.
// full reports that dst ran out of room; found reports that end was seen.
func (r *byteReader) readUntil(dst []byte, end byte, timeout time.Duration) (n int, full, found bool, err error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return n, false, false, nil
		}
		b, ok, err := r.next(remaining)
		if err != nil {
			return n, false, false, err
		}
		if !ok {
			continue
		}
		if b == end {
			return n, false, true, nil
		}
		if n == len(dst) {
			return n, true, false, nil
		}
		dst[n] = b
		n++
	}
}
