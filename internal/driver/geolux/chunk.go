// internal/driver/geolux/chunk.go
package geolux

import (
	"go.uber.org/zap"
)

// headerBytes precede every #get_image payload on the wire and are not part
// of the image.
const headerBytes = 2

// trailerSlack is read past the declared image size so the closing JPEG
// marker is not missed when the camera under-reports.
const trailerSlack = 12

// ImageChunk requests length image bytes starting at offset and copies them
// into buf. The two header bytes are stripped; the returned count is image
// payload only and may fall short of length when the camera stops sending
// early. A camera that stays silent past the response deadline yields
// ErrNoResponse.
func (c *Camera) ImageChunk(buf []byte, offset, length int) (int, error) {
	if length > len(buf) {
		length = len(buf)
	}
	c.r.discard()
	if err := c.sendCommand(cmdGetImage, offset, length, formatRAW); err != nil {
		return 0, err
	}

	// First byte of the reply is bounded by the command response deadline,
	// every byte after it only by the inter-byte gap.
	b, ok, err := c.r.next(c.cfg.ResponseTimeout)
	if err != nil {
		return 0, err
	}
	if !ok {
		c.logger.Warn("no reply to image chunk request",
			zap.Int("offset", offset), zap.Int("length", length))
		return 0, ErrNoResponse
	}
	_ = b
	if _, ok, err = c.r.next(c.cfg.ByteTimeout); err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	n := 0
	for n < length {
		b, ok, err = c.r.next(c.cfg.ChunkReadTimeout)
		if err != nil {
			return n, err
		}
		if !ok {
			break
		}
		buf[n] = b
		n++
	}
	if n != length {
		c.logger.Debug("short image chunk",
			zap.Int("offset", offset), zap.Int("requested", length), zap.Int("received", n))
	}
	return n, nil
}
