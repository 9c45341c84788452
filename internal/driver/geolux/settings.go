// internal/driver/geolux/settings.go
package geolux

// NightMode selects how the camera drives its infrared cut filter.
type NightMode string

const (
	// NightModeDay keeps the IR filter in place for color images.
	NightModeDay NightMode = "day"
	// NightModeNight removes the IR filter for a black and white image.
	NightModeNight NightMode = "night"
	// NightModeAuto lets the camera pick based on measured illumination.
	NightModeAuto NightMode = "auto"
)

// IRLEDMode selects how the infrared illuminator behaves.
type IRLEDMode string

const (
	IRLEDOn   IRLEDMode = "on"
	IRLEDOff  IRLEDMode = "off"
	IRLEDAuto IRLEDMode = "auto"
)

// SetResolution changes the capture resolution, e.g. "1600x1200". The list
// of valid resolutions depends on the sensor; the camera answers ERR for an
// unsupported one.
func (c *Camera) SetResolution(resolution string) (Status, error) {
	return c.exec(cmdSetResolution, resolution)
}

// SetQuality changes the JPEG compression quality, 1 to 100.
func (c *Camera) SetQuality(quality int) (Status, error) {
	return c.exec(cmdSetQuality, quality)
}

// SetJPEGMaximumSize caps the encoded image size in bytes. The camera lowers
// the quality as needed to fit.
func (c *Camera) SetJPEGMaximumSize(size int) (Status, error) {
	return c.exec(cmdSetJPEGMaxSize, size)
}

// SetNightMode changes the day/night behavior.
func (c *Camera) SetNightMode(mode NightMode) (Status, error) {
	return c.exec(cmdSetNightMode, string(mode))
}

// SetIRLEDMode changes the infrared illuminator behavior.
func (c *Camera) SetIRLEDMode(mode IRLEDMode) (Status, error) {
	return c.exec(cmdSetIRLEDMode, string(mode))
}

// SetAutofocusPoint weights the autofocus sweep around the given point.
func (c *Camera) SetAutofocusPoint(x, y int) (Status, error) {
	return c.exec(cmdSetAutofocusPoint, x, y)
}

// SetAutoexposureRegion restricts exposure metering to the given region.
func (c *Camera) SetAutoexposureRegion(x, y, width, height int) (Status, error) {
	return c.exec(cmdSetAutoexposure, x, y, width, height)
}

// SetWhiteBalanceOffset shifts the white balance per channel.
func (c *Camera) SetWhiteBalanceOffset(red, green, blue int) (Status, error) {
	return c.exec(cmdSetWBOffset, red, green, blue)
}

// SetColorCorrectionMode switches the color correction matrix on or off.
func (c *Camera) SetColorCorrectionMode(mode int) (Status, error) {
	return c.exec(cmdSetColorCorrection, mode)
}

// SetAutoSnapshotInterval configures the self-timer, in seconds. 0 turns it
// off.
func (c *Camera) SetAutoSnapshotInterval(seconds int) (Status, error) {
	return c.exec(cmdSetSnapshotInterval, seconds)
}
