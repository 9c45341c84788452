// internal/driver/geolux/info.go
package geolux

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// infoLineMax bounds one #get_info dump line. Firmware lines are well under
// this.
const infoLineMax = 128

// intFieldMax is the widest decimal the firmware can produce. A field longer
// than this is corrupt, not a bigger number.
const intFieldMax = 11

// Info requests the full settings dump and parses it into tag to values.
// Each dump line has the shape "#tag:v1,v2,...". Later lines arrive in quick
// succession, so after the first line the dump is considered finished once
// the line goes quiet.
func (c *Camera) Info() (map[string][]string, error) {
	c.r.discard()
	if err := c.sendCommand(cmdGetInfo); err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	var line [infoLineMax]byte
	timeout := c.cfg.ResponseTimeout
	for {
		n, full, found, err := c.r.readUntil(line[:], '\r', timeout)
		if err != nil {
			return nil, err
		}
		if !found && !full {
			break
		}
		tag, values, ok := parseInfoLine(string(line[:n]))
		if ok {
			out[tag] = values
		} else if n > 0 {
			c.logger.Debug("skipping malformed info line", zap.ByteString("line", line[:n]))
		}
		timeout = 250 * time.Millisecond
	}
	if len(out) == 0 {
		return nil, ErrNoResponse
	}
	return out, nil
}

func parseInfoLine(line string) (tag string, values []string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#") {
		return "", nil, false
	}
	tag, rest, ok := strings.Cut(line[1:], ":")
	if !ok || tag == "" {
		return "", nil, false
	}
	return tag, strings.Split(rest, ","), true
}

// infoField runs a #get_info exchange and extracts one field of one tagged
// line: the line "#tag:" is located in the stream, skip leading
// comma-separated fields are dropped, and the next field is returned. The
// rest of the dump is drained before returning.
func (c *Camera) infoField(tag string, skip, max int) (string, error) {
	c.r.discard()
	if err := c.sendCommand(cmdGetInfo); err != nil {
		return "", err
	}
	found, err := c.r.findLiteral("#"+tag+":", c.cfg.ResponseTimeout)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrFieldAbsent
	}
	for i := 0; i < skip; i++ {
		found, err = c.r.findLiteral(",", c.cfg.ResponseTimeout)
		if err != nil {
			return "", err
		}
		if !found {
			return "", ErrFieldAbsent
		}
	}
	buf := make([]byte, max)
	n := 0
	deadline := time.Now().Add(c.cfg.ResponseTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		b, ok, err := c.r.next(remaining)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if b == ',' || b == '\r' || b == '\n' {
			break
		}
		if n == len(buf) {
			c.r.discard()
			return "", ErrFieldOverflow
		}
		buf[n] = b
		n++
	}
	// Drop the remaining dump lines so they do not pollute the next
	// command's reply.
	c.r.discard()
	return string(buf[:n]), nil
}

func (c *Camera) infoString(tag string, skip int) (string, error) {
	return c.infoField(tag, skip, infoLineMax)
}

func (c *Camera) infoInt(tag string, skip int) (int, error) {
	s, err := c.infoField(tag, skip, intFieldMax)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrFieldAbsent
	}
	return v, nil
}

// DeviceType returns the camera's model identifier.
func (c *Camera) DeviceType() (string, error) { return c.infoString("device_type", 0) }

// Firmware returns the firmware version string.
func (c *Camera) Firmware() (string, error) { return c.infoString("firmware", 0) }

// SerialID returns the factory serial number.
func (c *Camera) SerialID() (string, error) { return c.infoString("serial_id", 0) }

// Resolution returns the configured capture resolution, e.g. "1600x1200".
func (c *Camera) Resolution() (string, error) { return c.infoString("resolution", 0) }

// Quality returns the JPEG quality setting.
func (c *Camera) Quality() (int, error) { return c.infoInt("quality", 0) }

// JPEGMaximumSize returns the firmware cap on encoded image size in bytes.
func (c *Camera) JPEGMaximumSize() (int, error) { return c.infoInt("jpeg_maximum_size", 0) }

// NightModeSetting returns the configured day/night behavior.
func (c *Camera) NightModeSetting() (string, error) { return c.infoString("night_mode", 0) }

// IRLEDMode returns the infrared illuminator mode.
func (c *Camera) IRLEDMode() (string, error) { return c.infoString("ir_led_mode", 0) }

// IRFilter returns the infrared cut filter state.
func (c *Camera) IRFilter() (string, error) { return c.infoString("ir_filter", 0) }

// AutofocusPoint returns the x,y coordinates the autofocus sweep weights.
func (c *Camera) AutofocusPoint() (x, y int, err error) {
	if x, err = c.infoInt("autofocus_point", 0); err != nil {
		return 0, 0, err
	}
	if y, err = c.infoInt("autofocus_point", 1); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// AutoexposureRegion returns the metering region as x, y, width, height.
func (c *Camera) AutoexposureRegion() (x, y, w, h int, err error) {
	if x, err = c.infoInt("autoexposure_region", 0); err != nil {
		return 0, 0, 0, 0, err
	}
	if y, err = c.infoInt("autoexposure_region", 1); err != nil {
		return 0, 0, 0, 0, err
	}
	if w, err = c.infoInt("autoexposure_region", 2); err != nil {
		return 0, 0, 0, 0, err
	}
	if h, err = c.infoInt("autoexposure_region", 3); err != nil {
		return 0, 0, 0, 0, err
	}
	return x, y, w, h, nil
}

// Exposure returns the exposure setting, 0 meaning automatic.
func (c *Camera) Exposure() (int, error) { return c.infoInt("exposure", 0) }

// ImageBrightness returns the target brightness for the auto exposure loop.
func (c *Camera) ImageBrightness() (int, error) { return c.infoInt("image_brightness", 0) }

// WhiteBalanceOffset returns the red, green and blue white balance offsets.
func (c *Camera) WhiteBalanceOffset() (red, green, blue int, err error) {
	if red, err = c.infoInt("wb_offset", 0); err != nil {
		return 0, 0, 0, err
	}
	if green, err = c.infoInt("wb_offset", 1); err != nil {
		return 0, 0, 0, err
	}
	if blue, err = c.infoInt("wb_offset", 2); err != nil {
		return 0, 0, 0, err
	}
	return red, green, blue, nil
}

// ColorCorrectionEnabled reports whether the color correction matrix is
// active.
func (c *Camera) ColorCorrectionEnabled() (bool, error) {
	s, err := c.infoString("color_correction_mode", 0)
	if err != nil {
		return false, err
	}
	return s == "on", nil
}

// AutoSnapshotInterval returns the self-timer interval in seconds, 0 when
// the camera reports it off.
func (c *Camera) AutoSnapshotInterval() (int, error) {
	s, err := c.infoString("auto_snapshot_interval", 0)
	if err != nil {
		return 0, err
	}
	if s == "off" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrFieldAbsent
	}
	return v, nil
}

// FocusPosition returns the current focus motor position.
func (c *Camera) FocusPosition() (int, error) { return c.infoInt("focus_position", 0) }

// ZoomPosition returns the current zoom motor position.
func (c *Camera) ZoomPosition() (int, error) { return c.infoInt("zoom_position", 0) }
