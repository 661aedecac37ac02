package parallax

// WindowLifecycleModule ends the app loop when the platform window asks to
// close and tears the window down afterwards. Hosts that drive Step
// themselves can skip it and watch WindowState.ShouldClose directly.
type WindowLifecycleModule struct{}

func (mod WindowLifecycleModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(func(s *WindowState) {
			if s.ShouldClose() {
				app.Quit()
			}
		}).InStage(Finale),
	)
}

// RunWindowed is the convenience entry point for a host that hands the loop
// over entirely: it runs until the window closes, then destroys it.
func (app *App) RunWindowed(s *WindowState) {
	defer s.Destroy()
	app.Run()
}
