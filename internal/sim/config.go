package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mash-protocol/mash-session/pkg/log"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Simulator errors.
var (
	ErrInvalidConfig = errors.New("invalid simulator configuration")
	ErrNotActive     = errors.New("session not active")
)

// Config configures a simulated device session.
type Config struct {
	// DeviceID identifies the simulated device.
	DeviceID string

	// LensFacing is the lens direction.
	LensFacing session.LensFacing

	// SensorRotation is the sensor orientation in degrees (0, 90, 180, 270).
	SensorRotation int

	// HasFlash sets whether the device has a flash unit (and torch).
	HasFlash bool

	// MinZoomRatio and MaxZoomRatio bound SetZoomRatio.
	MinZoomRatio float32
	MaxZoomRatio float32

	// MinExposureIndex and MaxExposureIndex bound the exposure compensation
	// index. Equal bounds mean exposure compensation is unsupported.
	MinExposureIndex int
	MaxExposureIndex int

	// ZSLSupported sets whether zero-shutter-lag capture is supported.
	ZSLSupported bool

	// ActiveArray is the active sensor area.
	ActiveArray session.Rect

	// Resolutions lists the output sizes per format.
	Resolutions map[session.Format][]session.Size

	// ReleaseDelay is how long releasing the device takes.
	ReleaseDelay time.Duration

	// FocusDuration is how long a focus and metering action runs before it
	// completes. Zero completes immediately.
	FocusDuration time.Duration

	// Logger receives operational logs. Nil disables logging.
	Logger *slog.Logger

	// Trace receives session trace events. Nil disables tracing.
	Trace log.Logger
}

// DefaultConfig returns a Config describing a typical back-facing device.
func DefaultConfig() Config {
	return Config{
		DeviceID:         "0",
		LensFacing:       session.LensFacingBack,
		SensorRotation:   90,
		HasFlash:         true,
		MinZoomRatio:     1.0,
		MaxZoomRatio:     8.0,
		MinExposureIndex: -12,
		MaxExposureIndex: 12,
		ZSLSupported:     true,
		ActiveArray:      session.Rect{Right: 4032, Bottom: 3024},
		Resolutions: map[session.Format][]session.Size{
			session.FormatPrivate: {{Width: 1920, Height: 1080}, {Width: 1280, Height: 720}, {Width: 640, Height: 480}},
			session.FormatYUV420:  {{Width: 1920, Height: 1080}, {Width: 640, Height: 480}},
			session.FormatJPEG:    {{Width: 4032, Height: 3024}, {Width: 1920, Height: 1080}},
		},
		ReleaseDelay: 10 * time.Millisecond,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("%w: missing device id", ErrInvalidConfig)
	}
	if c.MinZoomRatio <= 0 || c.MaxZoomRatio < c.MinZoomRatio {
		return fmt.Errorf("%w: zoom range [%v, %v]", ErrInvalidConfig, c.MinZoomRatio, c.MaxZoomRatio)
	}
	if c.MaxExposureIndex < c.MinExposureIndex {
		return fmt.Errorf("%w: exposure range [%d, %d]", ErrInvalidConfig, c.MinExposureIndex, c.MaxExposureIndex)
	}
	switch c.SensorRotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: sensor rotation %d", ErrInvalidConfig, c.SensorRotation)
	}
	if c.ReleaseDelay < 0 || c.FocusDuration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}
