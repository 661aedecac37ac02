package parallax

import (
	"fmt"
)

// ControlsGate arbitrates viewport input between the camera controller and
// other interactive tools (a transform widget, a measurement tool). A tool
// that wants the pointer claims the gate before the camera systems run;
// while any claim is held every camera input handler is inert and any
// in-progress drag is aborted without residual velocity.
//
// Unlike a plain shared boolean, a claim is explicit: acquiring an already
// claimed gate is an error instead of a silent race. All access happens on
// the frame thread; the gate is deliberately not a mutex.
type ControlsGate struct {
	owner string

	// Dragging is set while the camera controller itself owns a drag, so
	// cooperating tools can avoid stealing a gesture in flight.
	Dragging bool

	// WheelHandled marks this frame's wheel delta as consumed by another
	// component. Cleared by the input system at the start of each frame.
	WheelHandled bool
}

// ControlsClaim suspends the camera controller until released.
type ControlsClaim struct {
	gate     *ControlsGate
	owner    string
	released bool
}

func (g *ControlsGate) Acquire(owner string) (*ControlsClaim, error) {
	if owner == "" {
		return nil, fmt.Errorf("controls claim needs a non-empty owner")
	}
	if g.owner != "" {
		return nil, fmt.Errorf("controls already claimed by %q", g.owner)
	}
	g.owner = owner
	return &ControlsClaim{gate: g, owner: owner}, nil
}

// Enabled reports whether the camera controller may react to input.
func (g *ControlsGate) Enabled() bool {
	return g.owner == ""
}

// Owner returns the current claim holder, or "" when the gate is open.
func (g *ControlsGate) Owner() string {
	return g.owner
}

// Release reopens the gate. Releasing twice is a no-op.
func (c *ControlsClaim) Release() {
	if c == nil || c.released {
		return
	}
	c.released = true
	if c.gate.owner == c.owner {
		c.gate.owner = ""
	}
}
