// internal/driver/geolux/response.go
package geolux

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// bootBanner is printed by the camera when it (re)boots. Seeing it while
// waiting for a command reply means the device reset underneath us.
const bootBanner = "Geolux HydroCAM"

// statusTerminators end every regular command reply. Order matters: the
// 1-based position of the matching terminator is the reported status.
var statusTerminators = []string{"OK\r\n", "ERR\r\n", "BUSY\r\n", "NONE\r\n"}

// readyTerminators are the bare tokens of a #get_status reply. They carry no
// line ending of their own; the rest of the line follows the token.
var readyTerminators = []string{"READY", "ERR", "BUSY", "NONE"}

// maxReplyText bounds the raw reply text kept for diagnostics. Regular
// replies are a handful of bytes; anything longer is line noise.
const maxReplyText = 96

// reply is the outcome of waiting for a command response.
type reply struct {
	// index is the 1-based position of the matched terminator, 0 when the
	// deadline passed with no match.
	index int
	// reset is set when the boot banner arrived instead of a terminator.
	reset bool
	// text is the trimmed raw reply accumulated while waiting, bounded to
	// the most recent maxReplyText bytes.
	text string
}

func (p reply) status() Status {
	if p.index < int(StatusOK) || p.index > int(StatusNone) {
		return StatusNoResponse
	}
	return Status(p.index)
}

// waitResponse consumes camera output until one of the terminators has
// streamed past or the deadline runs out. Terminators are matched
// incrementally, so they may arrive split across reads. NUL bytes are line
// noise on a cold RS-232 link and are ignored. The boot banner is always
// matched alongside the terminators and wins immediately.
func (c *Camera) waitResponse(timeout time.Duration, terms ...string) (reply, error) {
	deadline := time.Now().Add(timeout)
	progress := make([]int, len(terms))
	banner := 0
	var acc []byte
	text := func() string { return strings.TrimSpace(string(acc)) }
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.logger.Debug("response deadline passed",
				zap.Duration("timeout", timeout),
				zap.String("received", text()))
			return reply{text: text()}, nil
		}
		b, ok, err := c.r.next(remaining)
		if err != nil {
			return reply{text: text()}, err
		}
		if !ok {
			continue
		}
		if b == 0x00 {
			continue
		}
		if len(acc) == maxReplyText {
			copy(acc, acc[1:])
			acc = acc[:maxReplyText-1]
		}
		acc = append(acc, b)
		for i, term := range terms {
			progress[i] = advance(progress[i], term, b)
			if progress[i] == len(term) {
				return reply{index: i + 1, text: text()}, nil
			}
		}
		banner = advance(banner, bootBanner, b)
		if banner == len(bootBanner) {
			c.logger.Warn("camera boot banner observed mid-command")
			c.noteReset()
			c.r.pending = nil
			return reply{reset: true, text: text()}, nil
		}
	}
}

// advance moves an incremental string match forward by one byte. The result
// is the longest prefix of s that is a suffix of the bytes consumed so far,
// so a match is reported exactly when the stream ends with s, even when the
// stream overlaps the terminator with itself.
func advance(matched int, s string, b byte) int {
	for k := matched + 1; k > 0; k-- {
		if b == s[k-1] && s[:k-1] == s[matched-k+1:matched] {
			return k
		}
	}
	return 0
}
