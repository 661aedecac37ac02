package parallax

import (
	"reflect"
)

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is
// created and made available as a resource for the input module and any
// renderer. Install is idempotent: an existing WindowState resource is
// reused to preserve the single-window invariant.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Parallax"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}
	app.addResources(createWindowState(m.Width, m.Height, m.Title))
	app.Logger().Infof("created %dx%d window %q", m.Width, m.Height, m.Title)
}
