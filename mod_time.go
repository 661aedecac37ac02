package parallax

import (
	"time"
)

// MaxFrameDelta caps Dt so a stalled or backgrounded host cannot produce a
// huge catch-up step when frames resume.
const MaxFrameDelta = 100 * time.Millisecond

// referenceFrame is the frame duration damping factors are expressed
// against; see frameDamping.
const referenceFrame = 16 * time.Millisecond

type Time struct {
	Time time.Time
	Dt   time.Duration
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	dt := now.Sub(timeResource.Time)
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}
	timeResource.Dt = dt
	timeResource.Time = now
}
