package parallax

import (
	"math"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

type InteractionMode int

const (
	ModeOrbit InteractionMode = iota
	ModeFly
)

type HorizonLockMode int

const (
	HorizonFree HorizonLockMode = iota
	HorizonLocked
	HorizonFlipped // locked, with world-up negated (upside-down authored data)
)

// ViewportCameraComponent is the controller state for one camera: the
// interaction mode, the orbit target/distance pair, residual velocities and
// all tunables. Configuration fields take effect on the next frame; setters
// exist where a change has to convert state to stay visually continuous.
type ViewportCameraComponent struct {
	Mode       InteractionMode
	Lock       HorizonLockMode
	Convention UpConvention

	// Orbit state. Distance chases TargetDistance so wheel zoom lands
	// smoothly; both are floored at MinDistance.
	Target         mgl32.Vec3
	Distance       float32
	TargetDistance float32

	// Spin is the residual angular velocity (yaw, pitch) in radians per
	// reference frame; Glide the world-space translation velocity in units
	// per second. Both decay by Damping^(dt/referenceFrame).
	Spin  mgl32.Vec2
	Glide mgl32.Vec3

	MoveSpeed         float32
	BoostFactor       float32
	RotateSensitivity float32 // radians per pixel of drag
	PanSensitivity    float32 // fraction of Distance per pixel
	ZoomStep          float32 // multiplicative distance factor per wheel notch
	Damping           float32
	DistanceSmoothing float32 // fraction per reference frame toward TargetDistance
	MinDistance       float32

	AutoRotate      bool
	AutoRotateSpeed float32 // radians per second about world-up

	CaptureCursor bool

	// Per-frame interpreted input, written by the input system and
	// consumed by the control system.
	lookDelta mgl32.Vec2
	panDelta  mgl32.Vec2
	moveInput mgl32.Vec3
	zoomInput float32
	boost     bool
	rotating  bool
	panning   bool
	dragMoved bool
}

func NewViewportCameraComponent() ViewportCameraComponent {
	return ViewportCameraComponent{
		Mode:              ModeOrbit,
		Convention:        ConventionColmap,
		Distance:          10,
		TargetDistance:    10,
		MoveSpeed:         5,
		BoostFactor:       4,
		RotateSensitivity: 0.005,
		PanSensitivity:    0.002,
		ZoomStep:          0.9,
		Damping:           0.92,
		DistanceSmoothing: 0.2,
		MinDistance:       0.1,
		AutoRotateSpeed:   0.3,
		CaptureCursor:     true,
	}
}

// worldUp is the active up direction, honoring the flip lock mode.
func (vc *ViewportCameraComponent) worldUp() mgl32.Vec3 {
	up := vc.Convention.WorldUp()
	if vc.Lock == HorizonFlipped {
		return up.Mul(-1)
	}
	return up
}

// SetMode switches orbit/fly, converting state so the on-screen view does
// not jump. Entering orbit rebuilds the target from the current pose and
// the last known distance; entering fly just adopts the orientation.
// Residual momentum never crosses a mode switch.
func (vc *ViewportCameraComponent) SetMode(mode InteractionMode, cam *CameraComponent) {
	if mode == vc.Mode {
		return
	}
	vc.Spin = mgl32.Vec2{}
	vc.Glide = mgl32.Vec3{}

	if mode == ModeOrbit {
		if vc.Distance < vc.MinDistance {
			vc.Distance = vc.MinDistance
		}
		vc.Target = cam.Position.Add(cam.Forward().Mul(vc.Distance))
		vc.TargetDistance = vc.Distance
	}
	vc.Mode = mode
}

// SetProjection switches perspective/orthographic, preserving position and
// orientation exactly. The orthographic half-height is seeded from the
// orbit distance so framing is continuous; the ortho zoom factor restarts
// at 1 on entry.
func (vc *ViewportCameraComponent) SetProjection(kind ProjectionKind, cam *CameraComponent) {
	if kind == cam.Projection {
		return
	}
	vc.Spin = mgl32.Vec2{}
	vc.Glide = mgl32.Vec3{}

	if kind == Orthographic {
		cam.OrthoHalfHeight = vc.Distance * float32(math.Tan(float64(cam.Fov)/2))
		cam.OrthoZoom = 1
	}
	cam.Projection = kind
	cam.Generation++
}

func (vc *ViewportCameraComponent) SetFov(cam *CameraComponent, fov float32) {
	min := mgl32.DegToRad(10)
	max := mgl32.DegToRad(160)
	if fov < min {
		fov = min
	} else if fov > max {
		fov = max
	}
	if fov == cam.Fov {
		return
	}
	cam.Fov = fov
	cam.Generation++
}

func (vc *ViewportCameraComponent) SetMoveSpeed(speed float32) {
	if speed < 0.01 {
		speed = 0.01
	}
	vc.MoveSpeed = speed
}

func (vc *ViewportCameraComponent) SetHorizonLock(mode HorizonLockMode) {
	vc.Lock = mode
}

func (vc *ViewportCameraComponent) SetConvention(c UpConvention) {
	vc.Convention = c
}

func (vc *ViewportCameraComponent) SetAutoRotate(enabled bool, speed float32) {
	vc.AutoRotate = enabled
	if speed != 0 {
		vc.AutoRotateSpeed = speed
	}
}

// KeyBindings maps actions to input codes; replace the resource to rebind.
type KeyBindings struct {
	Forward int
	Back    int
	Left    int
	Right   int
	Up      int
	Down    int
	Boost   int

	ToggleMode int
	ViewReset  int
	ViewAxis   [6]int // indexed by Axis
}

func DefaultKeyBindings() *KeyBindings {
	return &KeyBindings{
		Forward:    KeyW,
		Back:       KeyS,
		Left:       KeyA,
		Right:      KeyD,
		Up:         KeyE,
		Down:       KeyQ,
		Boost:      KeyShift,
		ToggleMode: KeyTab,
		ViewReset:  KeyHome,
		ViewAxis:   [6]int{Key1, Key2, Key3, Key4, Key5, Key6},
	}
}

// ViewportCameraModule installs the whole controller: the gate, the view
// director, key bindings, and the input/view/control systems in that order
// within the Update stage. Tools that claim the gate do so in PreUpdate,
// which is what guarantees a same-frame claim is seen before a drag starts.
type ViewportCameraModule struct{}

func (m ViewportCameraModule) Install(app *App, cmd *Commands) {
	ensureResource(app, &ControlsGate{})
	ensureResource(app, NewViewDirector())
	ensureResource(app, DefaultKeyBindings())

	app.UseSystem(
		System(viewportCameraInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(viewDirectorSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(viewportCameraControlSystem).
			InStage(Update),
	)
}

func ensureResource(app *App, r any) {
	t := reflect.TypeOf(r).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}
	app.addResources(r)
}

// SpawnViewportCamera creates the camera entity the module drives. The
// design assumes exactly one per app.
func SpawnViewportCamera(cmd *Commands, aspect float32) EntityId {
	cam := NewCameraComponent(aspect)
	vc := NewViewportCameraComponent()
	return cmd.AddEntity(&cam, &vc)
}

// viewportCameraInputSystem interprets the per-frame input snapshot into
// gesture state and intent values on the component. It never touches the
// pose; that is the control system's job.
func viewportCameraInputSystem(cmd *Commands, input *Input, gate *ControlsGate, keys *KeyBindings, director *ViewDirector) {
	MakeQuery2[CameraComponent, ViewportCameraComponent](cmd).Map(
		func(eid EntityId, cam *CameraComponent, vc *ViewportCameraComponent) bool {
			vc.lookDelta = mgl32.Vec2{}
			vc.panDelta = mgl32.Vec2{}
			vc.moveInput = mgl32.Vec3{}
			vc.zoomInput = 0
			vc.boost = false

			// Window resizes reach the projection through the aspect
			// ratio; this is not a gesture, so it bypasses the gate.
			if input.WindowHeight > 0 {
				aspect := float32(input.WindowWidth) / float32(input.WindowHeight)
				if aspect != cam.Aspect {
					cam.Aspect = aspect
					cam.Generation++
				}
			}

			// An external capture exit (focus loss, Escape) must not turn
			// into a rotation jump when capture re-engages.
			if input.CaptureLost {
				vc.Spin = mgl32.Vec2{}
			}

			if !gate.Enabled() {
				// Suspended: abort any gesture in flight, with no fling.
				if vc.rotating || vc.panning {
					vc.rotating = false
					vc.panning = false
					vc.dragMoved = false
					vc.Spin = mgl32.Vec2{}
					vc.Glide = mgl32.Vec3{}
					input.WantCapture = false
				}
				gate.Dragging = false
				return false
			}

			// Gesture lifecycle.
			if input.JustPressed[MouseButtonLeft] {
				vc.rotating = true
				vc.dragMoved = false
			}
			if input.JustReleased[MouseButtonLeft] {
				vc.rotating = false
				vc.dragMoved = false
				input.WantCapture = false
			}
			if input.JustPressed[MouseButtonRight] || input.JustPressed[MouseButtonMiddle] {
				vc.panning = true
			}
			if input.JustReleased[MouseButtonRight] || input.JustReleased[MouseButtonMiddle] {
				vc.panning = false
			}
			gate.Dragging = vc.rotating || vc.panning

			dx := float32(input.MouseDeltaX)
			dy := float32(input.MouseDeltaY)
			if vc.rotating && (dx != 0 || dy != 0) {
				vc.lookDelta = mgl32.Vec2{dx, dy}
				if !vc.dragMoved {
					vc.dragMoved = true
					// Capture only once the drag really moves, so a plain
					// click can still pick objects.
					if vc.CaptureCursor {
						input.WantCapture = true
					}
				}
			}
			if vc.panning && (dx != 0 || dy != 0) {
				vc.panDelta = mgl32.Vec2{dx, dy}
			}

			// Wheel zoom, unless another component already took the event.
			if input.WheelDelta != 0 && !gate.WheelHandled {
				vc.zoomInput = float32(input.WheelDelta)
			}

			// Movement keys.
			if input.Pressed[keys.Forward] {
				vc.moveInput[2] += 1
			}
			if input.Pressed[keys.Back] {
				vc.moveInput[2] -= 1
			}
			if input.Pressed[keys.Right] {
				vc.moveInput[0] += 1
			}
			if input.Pressed[keys.Left] {
				vc.moveInput[0] -= 1
			}
			if input.Pressed[keys.Up] {
				vc.moveInput[1] += 1
			}
			if input.Pressed[keys.Down] {
				vc.moveInput[1] -= 1
			}
			vc.boost = input.Pressed[keys.Boost]

			// Discrete view keys.
			if input.JustPressed[keys.ToggleMode] {
				if vc.Mode == ModeOrbit {
					vc.SetMode(ModeFly, cam)
				} else {
					vc.SetMode(ModeOrbit, cam)
				}
			}
			if input.JustPressed[keys.ViewReset] {
				director.RequestReset()
			}
			for axis, code := range keys.ViewAxis {
				if input.JustPressed[code] {
					director.RequestAxisView(Axis(axis))
				}
			}
			return false
		})
}

// viewportCameraControlSystem is the per-frame integrator: zoom smoothing,
// drag rotation or inertial coasting, auto-rotate, panning, key movement,
// and the final pose write. The pose generation is bumped only when the
// frame actually changed something.
func viewportCameraControlSystem(cmd *Commands, time *Time, gate *ControlsGate) {
	dt := time.Dt
	if dt <= 0 {
		return
	}
	dtSec := float32(dt.Seconds())
	frames := float32(float64(dt) / float64(referenceFrame))

	MakeQuery2[CameraComponent, ViewportCameraComponent](cmd).Map(
		func(eid EntityId, cam *CameraComponent, vc *ViewportCameraComponent) bool {
			prev := *cam
			worldUp := vc.worldUp()
			damp := frameDamping(vc.Damping, dt)
			suspended := !gate.Enabled()
			if suspended {
				// A claim cancels all in-flight motion, the zoom goal
				// included; releasing it must not resume movement.
				vc.Spin = mgl32.Vec2{}
				vc.Glide = mgl32.Vec3{}
				vc.TargetDistance = vc.Distance
			}

			// Zoom. In orthographic projection the wheel drives the zoom
			// factor; the orbit distance is untouched so switching back to
			// perspective restores the old framing.
			if vc.zoomInput != 0 && !suspended {
				if cam.Projection == Orthographic {
					factor := float32(math.Pow(float64(vc.ZoomStep), -float64(vc.zoomInput)))
					cam.OrthoZoom *= factor
					if cam.OrthoZoom < 1e-3 {
						cam.OrthoZoom = 1e-3
					}
				} else {
					vc.TargetDistance *= float32(math.Pow(float64(vc.ZoomStep), float64(vc.zoomInput)))
					if vc.TargetDistance < vc.MinDistance {
						vc.TargetDistance = vc.MinDistance
					}
				}
			}

			// Distance chases its goal, frame-rate independent.
			if vc.Distance != vc.TargetDistance {
				alpha := 1 - float32(math.Pow(float64(1-vc.DistanceSmoothing), float64(frames)))
				vc.Distance += (vc.TargetDistance - vc.Distance) * alpha
				if math.Abs(float64(vc.TargetDistance-vc.Distance)) < 1e-5 {
					vc.Distance = vc.TargetDistance
				}
			}

			// Rotation: live drag sets the pose directly and records the
			// velocity for inertia; otherwise residual spin coasts and
			// decays, and once it has fully settled auto-rotate may take
			// over with a constant turntable yaw.
			dragging := vc.rotating && !suspended
			if dragging && (vc.lookDelta[0] != 0 || vc.lookDelta[1] != 0) {
				yaw := -vc.lookDelta[0] * vc.RotateSensitivity
				pitch := -vc.lookDelta[1] * vc.RotateSensitivity
				cam.Rotation = vc.rotate(cam.Rotation, yaw, pitch, worldUp)
				if frames > 0 {
					vc.Spin = mgl32.Vec2{yaw / frames, pitch / frames}
				}
			} else if dragging {
				// Held still mid-drag: releasing now must not fling.
				vc.Spin = mgl32.Vec2{}
			} else if !suspended {
				if vc.Spin[0] != 0 || vc.Spin[1] != 0 {
					cam.Rotation = vc.rotate(cam.Rotation, vc.Spin[0]*frames, vc.Spin[1]*frames, worldUp)
					vc.Spin = dampSpin(vc.Spin, damp)
				} else if vc.AutoRotate {
					cam.Rotation = mgl32.QuatRotate(vc.AutoRotateSpeed*dtSec, worldUp).Mul(cam.Rotation).Normalize()
				}
			}

			// Pan drag moves the orbit target in the view plane, scaled by
			// distance so it tracks the cursor at any zoom.
			if vc.panning && !suspended && vc.Mode == ModeOrbit &&
				(vc.panDelta[0] != 0 || vc.panDelta[1] != 0) {
				scale := vc.Distance * vc.PanSensitivity
				vc.Target = vc.Target.
					Sub(cam.Right().Mul(vc.panDelta[0] * scale)).
					Add(cam.Up().Mul(vc.panDelta[1] * scale))
			}

			// Key movement accelerates the glide velocity; damping caps it.
			if !suspended && (vc.moveInput[0] != 0 || vc.moveInput[1] != 0 || vc.moveInput[2] != 0) {
				dir := cam.Right().Mul(vc.moveInput[0]).
					Add(worldUp.Mul(vc.moveInput[1])).
					Add(cam.Forward().Mul(vc.moveInput[2]))
				if dir.Len() > 0 {
					speed := vc.MoveSpeed
					if vc.boost {
						speed *= vc.BoostFactor
					}
					vc.Glide = vc.Glide.Add(dir.Normalize().Mul(speed * glideAccel * dtSec))
				}
			}
			vc.Glide = dampGlide(vc.Glide, damp)
			if vc.Glide.Len() > 0 {
				step := vc.Glide.Mul(dtSec)
				if vc.Mode == ModeFly {
					cam.Position = cam.Position.Add(step)
				} else {
					vc.Target = vc.Target.Add(step)
				}
			}

			// Finalize: in orbit mode the position is always derived from
			// target, orientation and distance.
			if vc.Mode == ModeOrbit {
				cam.Position = vc.Target.Sub(cam.Forward().Mul(vc.Distance))
			}

			if poseChanged(&prev, cam) {
				cam.Generation++
			}
			return false
		})
}

// glideAccel converts held keys into velocity gain; together with the
// default damping it yields a short ramp-up to a stable cruise speed.
const glideAccel = 3.0

func (vc *ViewportCameraComponent) rotate(q mgl32.Quat, yaw, pitch float32, worldUp mgl32.Vec3) mgl32.Quat {
	if vc.Lock == HorizonFree {
		return applyFreeRotation(q, yaw, pitch)
	}
	return applyLockedRotation(q, yaw, pitch, worldUp)
}

func poseChanged(a, b *CameraComponent) bool {
	if a.Position != b.Position {
		return true
	}
	if a.Rotation != b.Rotation {
		return true
	}
	if a.Projection != b.Projection || a.Fov != b.Fov {
		return true
	}
	if a.OrthoHalfHeight != b.OrthoHalfHeight || a.OrthoZoom != b.OrthoZoom {
		return true
	}
	return false
}
