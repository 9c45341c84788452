// internal/driver/geolux/command.go
package geolux

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Command verbs understood by the HydroCAM firmware.
const (
	cmdTakeSnapshot        = "take_snapshot"
	cmdGetStatus           = "get_status"
	cmdGetImage            = "get_image"
	cmdGetInfo             = "get_info"
	cmdReset               = "reset"
	cmdSleep               = "sleep"
	cmdRunAutofocus        = "run_autofocus"
	cmdMoveFocus           = "move_focus"
	cmdMoveZoom            = "move_zoom"
	cmdSetResolution       = "set_resolution"
	cmdSetQuality          = "set_quality"
	cmdSetJPEGMaxSize      = "set_jpeg_maximum_size"
	cmdSetNightMode        = "set_night_mode"
	cmdSetIRLEDMode        = "set_ir_led_mode"
	cmdSetAutofocusPoint   = "set_autofocus_point"
	cmdSetAutoexposure     = "set_autoexposure_region"
	cmdSetWBOffset         = "set_wb_offset"
	cmdSetColorCorrection  = "set_color_correction_mod"
	cmdSetSnapshotInterval = "set_auto_snapshot_interval"
)

// formatRAW asks #get_image for the unencoded byte stream.
const formatRAW = "RAW"

// sendCommand writes one command frame: '#', the verb, '=' and a
// comma-separated parameter list when params are given, then CRLF.
func (c *Camera) sendCommand(verb string, params ...interface{}) error {
	var sb strings.Builder
	sb.WriteByte('#')
	sb.WriteString(verb)
	for i, p := range params {
		if i == 0 {
			sb.WriteByte('=')
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprint(&sb, p)
	}
	sb.WriteString("\r\n")

	frame := sb.String()
	c.logger.Debug("sending command", zap.String("verb", verb))
	if _, err := c.conn.Write([]byte(frame)); err != nil {
		return fmt.Errorf("failed to send %s command: %w", verb, err)
	}
	return nil
}

// exec is the common shape of most camera operations: flush stale output,
// send the command, wait for a status terminator.
func (c *Camera) exec(verb string, params ...interface{}) (Status, error) {
	c.r.discard()
	if err := c.sendCommand(verb, params...); err != nil {
		return StatusNoResponse, err
	}
	rep, err := c.waitResponse(c.cfg.ResponseTimeout, statusTerminators...)
	if err != nil {
		return StatusNoResponse, err
	}
	if rep.reset {
		return StatusNoResponse, ErrDeviceReset
	}
	return rep.status(), nil
}
