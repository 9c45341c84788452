// internal/driver/geolux/status.go
package geolux

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// TakeSnapshot asks the camera to capture an image into its internal buffer.
// The capture runs asynchronously; poll GetStatus (or use WaitReady) until
// the camera reports READY before transferring the image.
func (c *Camera) TakeSnapshot() (Status, error) {
	return c.exec(cmdTakeSnapshot)
}

// GetStatus polls the camera state. Unlike regular replies the status line
// starts with a bare token, so after matching it the rest of the line is
// skipped up to the newline.
func (c *Camera) GetStatus() (Status, error) {
	c.r.discard()
	if err := c.sendCommand(cmdGetStatus); err != nil {
		return StatusNoResponse, err
	}
	rep, err := c.waitResponse(c.cfg.ResponseTimeout, readyTerminators...)
	if err != nil {
		return StatusNoResponse, err
	}
	if rep.reset {
		return StatusNoResponse, ErrDeviceReset
	}
	if rep.index == 0 {
		return StatusNoResponse, nil
	}
	if _, err := c.r.findLiteral("\n", c.cfg.ResponseTimeout); err != nil {
		return StatusNoResponse, err
	}
	return rep.status(), nil
}

// ImageSize returns the size in bytes of the image captured by the last
// snapshot. The size is the second comma-separated field of the READY status
// line; it is 0 when the camera is not READY or the field cannot be parsed.
func (c *Camera) ImageSize() (int, error) {
	c.r.discard()
	if err := c.sendCommand(cmdGetStatus); err != nil {
		return 0, err
	}
	rep, err := c.waitResponse(c.cfg.ResponseTimeout, readyTerminators...)
	if err != nil {
		return 0, err
	}
	if rep.reset {
		return 0, ErrDeviceReset
	}
	if rep.index == 0 {
		return 0, ErrNoResponse
	}
	if rep.status() != StatusOK {
		c.r.findLiteral("\n", c.cfg.ResponseTimeout)
		return 0, nil
	}
	found, err := c.r.findLiteral(",", c.cfg.ResponseTimeout)
	if err != nil || !found {
		return 0, err
	}
	var buf [11]byte
	n, full, _, err := c.r.readUntil(buf[:], '\r', c.cfg.ResponseTimeout)
	if err != nil {
		return 0, err
	}
	if full {
		return 0, ErrFieldOverflow
	}
	c.r.findLiteral("\n", c.cfg.ByteTimeout)
	size, err := strconv.Atoi(string(buf[:n]))
	if err != nil {
		c.logger.Warn("unparseable image size field", zap.ByteString("field", buf[:n]))
		return 0, nil
	}
	return size, nil
}

// WaitReady polls the camera until it reports READY or NONE, the context is
// cancelled, or the deadline passes. poll is the delay between status
// queries.
func (c *Camera) WaitReady(ctx context.Context, timeout, poll time.Duration) (Status, error) {
	deadline := time.Now().Add(timeout)
	for {
		st, err := c.GetStatus()
		if err != nil {
			return st, err
		}
		if st == StatusOK || st == StatusNone {
			return st, nil
		}
		if time.Now().After(deadline) {
			return st, ErrNoResponse
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-time.After(poll):
		}
	}
}

// Restart reboots the camera. The command is acknowledged with OK before the
// device goes down; the boot banner is then awaited so the caller gets the
// camera back in a known state.
func (c *Camera) Restart() error {
	st, err := c.exec(cmdReset)
	if err != nil && err != ErrDeviceReset {
		return err
	}
	if err == nil && st != StatusOK {
		return ErrNoResponse
	}
	if err != ErrDeviceReset {
		rep, err := c.waitResponse(10 * time.Second)
		if err != nil {
			return err
		}
		if !rep.reset {
			return ErrNoResponse
		}
	}
	c.r.findLiteral("\n", c.cfg.ResponseTimeout)
	// The reboot was asked for, do not leave it latched.
	c.ResetSeen()
	return nil
}

// Sleep puts the camera into its low-power state for the given number of
// seconds. The camera wakes on its own when the period elapses.
func (c *Camera) Sleep(seconds int) (Status, error) {
	return c.exec(cmdSleep, seconds)
}

// RunAutofocus starts an autofocus sweep. The sweep runs asynchronously;
// poll with WaitReady.
func (c *Camera) RunAutofocus() (Status, error) {
	return c.exec(cmdRunAutofocus)
}

// MoveFocus nudges the focus motor by the given number of steps, negative
// toward near focus.
func (c *Camera) MoveFocus(steps int) (Status, error) {
	return c.exec(cmdMoveFocus, steps)
}

// MoveZoom nudges the zoom motor by the given number of steps.
func (c *Camera) MoveZoom(steps int) (Status, error) {
	return c.exec(cmdMoveZoom, steps)
}
