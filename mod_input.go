package parallax

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeySpace
	KeyEscape
	KeyTab
	KeyHome
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	inputCodeCount
)

// Input is the per-frame snapshot of the pointing device and keyboard.
// The GLFW-backed input system fills it; camera systems only ever read it,
// which is also what makes them testable without a window.
type Input struct {
	Pressed      [inputCodeCount]bool
	JustPressed  [inputCodeCount]bool
	JustReleased [inputCodeCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	WheelDelta               float64

	// CursorCaptured mirrors the actual capture state. WantCapture is
	// written by the camera controller once a rotate drag has produced
	// real movement; capture is never taken on a bare click so picking
	// still works. CaptureLost flags an externally forced exit (focus
	// loss, Escape) for exactly one frame; the controller must zero its
	// angular velocity when it sees it.
	CursorCaptured bool
	WantCapture    bool
	CaptureLost    bool

	Focused                   bool
	WindowWidth, WindowHeight int
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	ensureResource(app, &ControlsGate{})
	cmd.AddResources(&Input{Focused: true})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input, gate *ControlsGate) {
	input.CaptureLost = false
	input.WheelDelta = 0
	gate.WheelHandled = false

	glfw.PollEvents()

	// Keyboard and mouse buttons. Polled state cannot produce stuck keys,
	// but focus loss below still clears the whole set so a release that
	// happened while unfocused is never missed.
	for key, glfwKey := range keyToGlfw {
		updateButton(input, key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	updateButton(input, MouseButtonLeft, s.windowGlfw.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
	updateButton(input, MouseButtonRight, s.windowGlfw.GetMouseButton(glfw.MouseButtonRight) == glfw.Press)
	updateButton(input, MouseButtonMiddle, s.windowGlfw.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press)

	// Cursor movement.
	mx, my := s.windowGlfw.GetCursorPos()
	input.MouseDeltaX = mx - input.MouseX
	input.MouseDeltaY = my - input.MouseY
	input.MouseX = mx
	input.MouseY = my

	// Wheel, accumulated by the scroll callback since the last poll.
	input.WheelDelta = s.pendingScroll
	s.pendingScroll = 0

	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()

	// Focus transitions.
	input.Focused = s.focused
	if s.focusLost {
		s.focusLost = false
		for i := range input.Pressed {
			input.Pressed[i] = false
		}
		if input.CursorCaptured {
			releaseCursor(s, input)
		}
		input.WantCapture = false
	}

	// Escape is the capture bail-out, the pointer-lock-exit analog.
	if input.CursorCaptured && input.JustPressed[KeyEscape] {
		releaseCursor(s, input)
		input.WantCapture = false
	}

	// Apply the controller's capture request lazily.
	if input.WantCapture && !input.CursorCaptured && input.Focused {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		input.CursorCaptured = true
	} else if !input.WantCapture && input.CursorCaptured {
		s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		input.CursorCaptured = false
	}
}

func updateButton(input *Input, code int, down bool) {
	input.JustPressed[code] = false
	input.JustReleased[code] = false
	if down {
		if !input.Pressed[code] {
			input.JustPressed[code] = true
		}
		input.Pressed[code] = true
	} else {
		if input.Pressed[code] {
			input.JustReleased[code] = true
		}
		input.Pressed[code] = false
	}
}

func releaseCursor(s *WindowState, input *Input) {
	s.windowGlfw.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	input.CursorCaptured = false
	input.CaptureLost = true
}

var keyToGlfw = map[int]glfw.Key{
	KeyW:       glfw.KeyW,
	KeyA:       glfw.KeyA,
	KeyS:       glfw.KeyS,
	KeyD:       glfw.KeyD,
	KeyQ:       glfw.KeyQ,
	KeyE:       glfw.KeyE,
	KeySpace:   glfw.KeySpace,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyHome:    glfw.KeyHome,
	Key1:       glfw.Key1,
	Key2:       glfw.Key2,
	Key3:       glfw.Key3,
	Key4:       glfw.Key4,
	Key5:       glfw.Key5,
	Key6:       glfw.Key6,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
}
