// internal/driver/geolux/transfer.go
package geolux

import (
	"bufio"
	"io"
	"time"

	"go.uber.org/zap"
)

// TransferStats summarizes one image transfer for diagnostics.
type TransferStats struct {
	BytesRead    int           `json:"bytes_read"`
	BytesWritten int           `json:"bytes_written"`
	Chunks       int           `json:"chunks"`
	Retries      int           `json:"retries"`
	MaxResponse  time.Duration `json:"max_response"`
	MaxByteGap   time.Duration `json:"max_byte_gap"`
	Elapsed      time.Duration `json:"elapsed"`

	// EOFMarker reports that the closing JPEG marker was seen on the wire.
	EOFMarker bool `json:"eof_marker"`
	// TimedOut reports that the transfer budget expired before the marker.
	TimedOut bool `json:"timed_out"`
}

// markerWindow remembers the last few bytes of the stream so the two-byte
// JPEG markers are recognized even when they straddle a chunk boundary.
type markerWindow struct {
	buf [4]byte
	n   int
}

func (m *markerWindow) push(b byte) {
	m.buf[m.n%len(m.buf)] = b
	m.n++
}

// last returns the most recently pushed byte, 0 before any byte was pushed.
func (m *markerWindow) last() byte {
	if m.n == 0 {
		return 0
	}
	return m.buf[(m.n-1)%len(m.buf)]
}

// TransferImage streams the captured image of the given declared size to w
// in chunks of chunkSize bytes per request. It returns the number of image
// bytes written. The transfer ends when the closing JPEG marker is seen,
// when the camera pads with zeros past the declared size, or when the
// transfer budget runs out; in the last case TimedOut is set and the bytes
// already written stand.
//
// The declared size is advisory. A few bytes past it are always requested so
// the closing marker is caught when the camera under-reports, and a marker
// on the wire always wins over the declared size.
func (c *Camera) TransferImage(w io.Writer, imageSize, chunkSize int) (int, TransferStats, error) {
	if chunkSize <= 0 {
		chunkSize = c.cfg.ChunkSize
	}
	c.r.discard()
	bw := bufio.NewWriter(w)
	stats := TransferStats{}
	start := time.Now()

	var (
		window    markerWindow
		eof       bool
		timedOut  bool
		offset    int
		retries   int
		remaining = imageSize + headerBytes + trailerSlack
	)

	for !eof && !timedOut {
		if time.Since(start) > c.cfg.TransferBudget {
			timedOut = true
			break
		}
		want := remaining
		if want < 1 {
			want = 1
		}
		if want > chunkSize {
			want = chunkSize
		}

		if err := c.sendCommand(cmdGetImage, offset, want, formatRAW); err != nil {
			return stats.BytesWritten, stats, err
		}
		reqStart := time.Now()
		b, ok, err := c.r.next(c.cfg.ResponseTimeout)
		if err != nil {
			return stats.BytesWritten, stats, err
		}
		if !ok {
			retries++
			stats.Retries++
			c.logger.Warn("image chunk went unanswered",
				zap.Int("offset", offset), zap.Int("attempt", retries))
			if retries > c.cfg.ChunkRetries {
				bw.Flush()
				return stats.BytesWritten, stats, ErrNoResponse
			}
			continue
		}
		retries = 0
		if rtt := time.Since(reqStart); rtt > stats.MaxResponse {
			stats.MaxResponse = rtt
		}

		read := 0
		payload := 0
		for i := 0; i < want+headerBytes; i++ {
			if i > 0 {
				gapStart := time.Now()
				b, ok, err = c.r.next(c.cfg.ByteTimeout)
				if err != nil {
					return stats.BytesWritten, stats, err
				}
				if !ok {
					break
				}
				if gap := time.Since(gapStart); gap > stats.MaxByteGap {
					stats.MaxByteGap = gap
				}
			}
			read++
			stats.BytesRead++

			// Header bytes are not image data: they must not reach the
			// writer, the marker window, or the offset bookkeeping, or a
			// marker straddling a chunk boundary would be lost behind
			// the next chunk's header.
			if i >= headerBytes {
				payload++

				// Zero fill past the declared size means the camera's
				// buffer is exhausted.
				if stats.BytesWritten >= imageSize && b == 0 {
					eof = true
				}
				if !eof {
					if err := bw.WriteByte(b); err != nil {
						return stats.BytesWritten, stats, err
					}
					stats.BytesWritten++
				}

				prev := window.last()
				window.push(b)
				if b == 0xD9 && prev == 0xFF {
					eof = true
					stats.EOFMarker = true
				}
				if b == 0xD8 && prev == 0xFF {
					// A start marker after a stray FF D9 means the
					// image is still coming.
					eof = false
				}
			}

			if time.Since(start) > c.cfg.TransferBudget {
				timedOut = true
				break
			}
		}

		// The next offset is advanced by the image bytes actually seen, so
		// a chunk cut short by an inter-byte timeout is re-requested from
		// exactly where the camera stopped.
		remaining -= payload
		offset += payload
		stats.Chunks++

		if !eof && !timedOut && payload != want {
			c.logger.Warn("unexpected chunk byte count",
				zap.Int("expected", want),
				zap.Int("read", read),
				zap.Int("offset", offset))
		}
	}

	if err := bw.Flush(); err != nil {
		return stats.BytesWritten, stats, err
	}
	stats.Elapsed = time.Since(start)
	stats.TimedOut = timedOut
	c.logger.Info("image transfer finished",
		zap.Int("declared_size", imageSize),
		zap.Int("bytes_written", stats.BytesWritten),
		zap.Int("chunks", stats.Chunks),
		zap.Bool("eof_marker", stats.EOFMarker),
		zap.Bool("timed_out", stats.TimedOut),
		zap.Duration("elapsed", stats.Elapsed))
	return stats.BytesWritten, stats, nil
}
