package parallax

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState wraps the single GLFW window. Scroll and focus arrive as
// callbacks between polls; they are accumulated here and drained by the
// input system once per frame, so all downstream code sees a stable
// per-frame snapshot.
type WindowState struct {
	windowGlfw *glfw.Window

	pendingScroll float64
	focused       bool
	focusLost     bool
}

func createWindowState(width, height int, title string) *WindowState {
	if err := glfw.Init(); err != nil {
		panic(fmt.Sprintf("glfw init failed: %v", err))
	}

	// The controller does not render; the renderer module attaches its own
	// surface to the same window.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(fmt.Sprintf("glfw window creation failed: %v", err))
	}

	s := &WindowState{
		windowGlfw: window,
		focused:    true,
	}

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		s.pendingScroll += yoff
	})
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if s.focused && !focused {
			s.focusLost = true
		}
		s.focused = focused
	})

	return s
}

func (s *WindowState) ShouldClose() bool {
	return s.windowGlfw.ShouldClose()
}

func (s *WindowState) Destroy() {
	s.windowGlfw.Destroy()
	glfw.Terminate()
}
