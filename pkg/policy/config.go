package policy

import (
	"errors"
	"fmt"
)

// Config errors.
var (
	ErrInvalidConfig    = errors.New("invalid policy configuration")
	ErrUnknownProcessor = errors.New("unknown processor")
)

// DefaultID identifies the configuration used when a session has no
// extended configuration applied.
const DefaultID = "default"

// SessionType selects how the device session is configured.
type SessionType string

const (
	// SessionTypeRegular is a regular capture session.
	SessionTypeRegular SessionType = "regular"

	// SessionTypeHighSpeed is a constrained high-speed session.
	SessionTypeHighSpeed SessionType = "high_speed"
)

// Valid reports whether t is a known session type. The empty value is valid
// and means SessionTypeRegular.
func (t SessionType) Valid() bool {
	switch t {
	case "", SessionTypeRegular, SessionTypeHighSpeed:
		return true
	default:
		return false
	}
}

// Config describes how a session should be overridden. It is a value type:
// copies are independent and a Config captured by a session never changes.
type Config struct {
	// ID identifies the configuration.
	ID string `yaml:"id"`

	// ProcessorID names the processor to bind. Empty means no processor.
	ProcessorID string `yaml:"processor,omitempty"`

	// CompatibilityID groups configurations that can share a device.
	CompatibilityID string `yaml:"compatibility_id,omitempty"`

	// SessionType selects the device session type.
	SessionType SessionType `yaml:"session_type,omitempty"`

	// ZSLDisabled disables zero-shutter-lag capture.
	ZSLDisabled bool `yaml:"zsl_disabled,omitempty"`

	// PostviewSupported is set when the processing layer can deliver a
	// postview image ahead of the final capture.
	PostviewSupported bool `yaml:"postview_supported,omitempty"`

	// CaptureProcessProgressSupported is set when the processing layer
	// reports capture processing progress.
	CaptureProcessProgressSupported bool `yaml:"capture_process_progress_supported,omitempty"`
}

// Default returns the configuration of a session with no policy applied.
func Default() Config {
	return Config{
		ID:          DefaultID,
		SessionType: SessionTypeRegular,
	}
}

// HasProcessor reports whether the configuration names a processor.
func (c Config) HasProcessor() bool {
	return c.ProcessorID != ""
}

// Validate checks that the configuration is readable.
func (c Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConfig)
	}
	if !c.SessionType.Valid() {
		return fmt.Errorf("%w: session type %q", ErrInvalidConfig, c.SessionType)
	}
	return nil
}
