// internal/driver/geolux/errors.go
package geolux

import "errors"

var (
	// ErrNoResponse means the camera stayed silent past the response
	// deadline.
	ErrNoResponse = errors.New("no response from camera")

	// ErrDeviceReset means the camera's boot banner arrived in place of a
	// command reply: the device restarted and any in-flight state is gone.
	ErrDeviceReset = errors.New("camera reset during command")

	// ErrFieldAbsent means a #get_info dump finished without the
	// requested tag.
	ErrFieldAbsent = errors.New("field not present in camera info")

	// ErrFieldOverflow means a numeric info field was longer than any
	// value the camera can legitimately produce.
	ErrFieldOverflow = errors.New("numeric field too long")

	// ErrBusy means the camera rejected a command because a previous
	// operation is still running.
	ErrBusy = errors.New("camera busy")
)
