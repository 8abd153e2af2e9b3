package adapter

import (
	"fmt"

	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Control overrides the device control capability and is bound to the
// processor resolved at adapter construction.
//
// When the processor implements policy.OperationFilter, operations it does
// not support fail with policy.ErrOperationNotSupported and never reach the
// native control. Everything else forwards unchanged.
type Control struct {
	native    session.ControlInternal
	processor policy.Processor
	filter    policy.OperationFilter
}

// NewControl creates a control override around native bound to p.
// A nil p, including a typed nil, forwards every operation.
func NewControl(native session.ControlInternal, p policy.Processor) *Control {
	if policy.IsNil(p) {
		p = nil
	}
	c := &Control{native: native, processor: p}
	if f, ok := p.(policy.OperationFilter); ok {
		c.filter = f
	}
	return c
}

// Processor returns the bound processor, or nil.
func (c *Control) Processor() policy.Processor {
	return c.processor
}

// Implementation returns the native control.
func (c *Control) Implementation() session.ControlInternal {
	return c.native
}

// check returns an error for the first op the processor rejects.
func (c *Control) check(ops ...policy.Operation) error {
	if c.filter == nil {
		return nil
	}
	for _, op := range ops {
		if !c.filter.Supports(op) {
			return fmt.Errorf("%w: %s by processor %q", policy.ErrOperationNotSupported, op, c.processor.ID())
		}
	}
	return nil
}

func (c *Control) EnableTorch(on bool) *session.Future {
	if err := c.check(policy.OperationTorch); err != nil {
		return session.FailedFuture(err)
	}
	return c.native.EnableTorch(on)
}

// StartFocusAndMetering requires every metering mode of the action to be
// supported.
func (c *Control) StartFocusAndMetering(action session.FocusMeteringAction) *session.Future {
	if err := c.check(action.Modes.Operations()...); err != nil {
		return session.FailedFuture(err)
	}
	return c.native.StartFocusAndMetering(action)
}

func (c *Control) CancelFocusAndMetering() *session.Future {
	return c.native.CancelFocusAndMetering()
}

func (c *Control) SetZoomRatio(ratio float32) *session.Future {
	if err := c.check(policy.OperationZoom); err != nil {
		return session.FailedFuture(err)
	}
	return c.native.SetZoomRatio(ratio)
}

func (c *Control) SetLinearZoom(linear float32) *session.Future {
	if err := c.check(policy.OperationZoom); err != nil {
		return session.FailedFuture(err)
	}
	return c.native.SetLinearZoom(linear)
}

func (c *Control) SetExposureCompensationIndex(index int) *session.Future {
	if err := c.check(policy.OperationExposureCompensation); err != nil {
		return session.FailedFuture(err)
	}
	return c.native.SetExposureCompensationIndex(index)
}

func (c *Control) SetFlashMode(mode session.FlashMode) error {
	if err := c.check(policy.OperationFlash); err != nil {
		return err
	}
	return c.native.SetFlashMode(mode)
}

func (c *Control) FlashMode() session.FlashMode {
	return c.native.FlashMode()
}

func (c *Control) SensorRect() session.Rect {
	return c.native.SensorRect()
}

func (c *Control) AddInteropConfig(options map[string]any) {
	c.native.AddInteropConfig(options)
}

func (c *Control) ClearInteropConfig() {
	c.native.ClearInteropConfig()
}

func (c *Control) InteropConfig() map[string]any {
	return c.native.InteropConfig()
}

var _ session.ControlInternal = (*Control)(nil)
