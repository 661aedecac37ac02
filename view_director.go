package parallax

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// How far from the scene the framed views stand, in multiples of the scene
// radius.
const initialDistanceMultiplier = 2.5

type Axis int

const (
	AxisPosX Axis = iota
	AxisNegX
	AxisPosY
	AxisNegY
	AxisPosZ
	AxisNegZ
)

// Fixed offset/up pair per axis view. The +Y/-Y ups are chosen so the view
// has a stable, predictable roll when looking straight down an up-ish axis.
var axisViews = [6]struct {
	offset mgl32.Vec3
	up     mgl32.Vec3
}{
	AxisPosX: {mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	AxisNegX: {mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	AxisPosY: {mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}},
	AxisNegY: {mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, 1}},
	AxisPosZ: {mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	AxisNegZ: {mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
}

type viewRequestKind int

const (
	viewReset viewRequestKind = iota
	viewAxis
	viewShot
)

type viewRequest struct {
	kind viewRequestKind
	axis Axis
	shot ShotId
}

type SceneBounds struct {
	Target mgl32.Vec3
	Radius float32
}

// ViewDirector holds the one-shot discrete view commands: reset, the six
// axis views and fly-to-shot. A request is consumed by the next frame's
// view system; issuing the same request twice produces the same pose twice.
// Reset and axis views are deliberate instantaneous cuts, not animations:
// they are corrective actions, not navigation.
type ViewDirector struct {
	pending *viewRequest

	bounds    SceneBounds
	hasBounds bool

	// Resolver maps shot ids to world poses; nil or a failed resolution
	// simply drops the request. Transform, when set, re-expresses resolved
	// poses under the active reconstruction alignment.
	Resolver  ShotResolver
	Transform *Similarity3
}

func NewViewDirector() *ViewDirector {
	return &ViewDirector{}
}

// SetSceneBounds supplies the external framing. This boundary is the only
// place the controller surfaces an error: a non-finite or non-positive
// radius must never reach the per-frame math.
func (d *ViewDirector) SetSceneBounds(target mgl32.Vec3, radius float32) error {
	if !isFinite(radius) || radius <= 0 {
		return fmt.Errorf("scene radius must be finite and positive, got %v", radius)
	}
	for i := 0; i < 3; i++ {
		if !isFinite(target[i]) {
			return fmt.Errorf("scene target must be finite, got %v", target)
		}
	}
	d.bounds = SceneBounds{Target: target, Radius: radius}
	d.hasBounds = true
	return nil
}

func (d *ViewDirector) Bounds() (SceneBounds, bool) {
	return d.bounds, d.hasBounds
}

func (d *ViewDirector) RequestReset() {
	d.pending = &viewRequest{kind: viewReset}
}

func (d *ViewDirector) RequestAxisView(axis Axis) {
	if axis < AxisPosX || axis > AxisNegZ {
		return
	}
	d.pending = &viewRequest{kind: viewAxis, axis: axis}
}

func (d *ViewDirector) RequestFlyTo(id ShotId) {
	d.pending = &viewRequest{kind: viewShot, shot: id}
}

// viewDirectorSystem consumes the pending request, if any, and rewrites the
// camera pose and orbit state. It runs between the camera input and control
// systems so the cut is what the frame integrates from.
func viewDirectorSystem(cmd *Commands, director *ViewDirector) {
	if director.pending == nil {
		return
	}
	req := *director.pending
	director.pending = nil

	MakeQuery2[CameraComponent, ViewportCameraComponent](cmd).Map(
		func(eid EntityId, cam *CameraComponent, vc *ViewportCameraComponent) bool {
			switch req.kind {
			case viewReset:
				applyFramedView(cam, vc, director, isometricOffset(), vc.worldUp())
			case viewAxis:
				view := axisViews[req.axis]
				applyFramedView(cam, vc, director, view.offset, view.up)
			case viewShot:
				applyShotView(cam, vc, director, req.shot, cmd.app.Logger())
			}
			return false
		})
}

func isometricOffset() mgl32.Vec3 {
	return mgl32.Vec3{1, 1, 1}.Normalize()
}

// applyFramedView performs the instantaneous reset/axis cut: distance is
// recomputed from the scene radius, the camera is placed along the offset
// direction and oriented back at the target.
func applyFramedView(cam *CameraComponent, vc *ViewportCameraComponent, director *ViewDirector, offsetDir, up mgl32.Vec3) {
	target := vc.Target
	distance := vc.Distance
	if director.hasBounds {
		target = director.bounds.Target
		distance = director.bounds.Radius * initialDistanceMultiplier
	}
	if distance < vc.MinDistance {
		distance = vc.MinDistance
	}

	pos := target.Add(offsetDir.Mul(distance))
	cam.Position = pos
	cam.Rotation = lookAtOrientation(pos, target, up)
	if cam.Projection == Orthographic {
		cam.OrthoHalfHeight = distance * float32(math.Tan(float64(cam.Fov)/2))
	}
	cam.Generation++

	vc.Target = target
	vc.Distance = distance
	vc.TargetDistance = distance
	vc.Spin = mgl32.Vec2{}
	vc.Glide = mgl32.Vec3{}
}

// applyShotView flies the camera to a resolved shot pose. The reconstruction
// stores shots in the vision convention (z forward, y down); the half-turn
// about local X converts them to the renderer's convention. With horizon
// lock active the final orientation is re-derived through a look-at so the
// jump never introduces roll. Zoom level survives: the orbit target is
// placed the current distance ahead of the new position.
func applyShotView(cam *CameraComponent, vc *ViewportCameraComponent, director *ViewDirector, id ShotId, log Logger) {
	if director.Resolver == nil {
		log.Debugf("fly-to %s dropped: no shot resolver installed", id)
		return
	}
	pose, ok := director.Resolver.ResolveShot(id)
	if !ok {
		// Shot no longer exists; the request was already consumed.
		log.Warnf("fly-to %s dropped: shot no longer resolvable", id)
		return
	}
	if director.Transform != nil {
		pose = director.Transform.ApplyPose(pose)
	}

	pose.Rotation = pose.Rotation.Mul(mgl32.QuatRotate(math.Pi, mgl32.Vec3{1, 0, 0})).Normalize()

	if vc.Lock != HorizonFree {
		forward := pose.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
		pose.Rotation = lookAtOrientation(pose.Position, pose.Position.Add(forward), vc.worldUp())
	}

	cam.Position = pose.Position
	cam.Rotation = pose.Rotation
	cam.Generation++

	forward := cam.Forward()
	vc.Target = pose.Position.Add(forward.Mul(vc.Distance))
	vc.TargetDistance = vc.Distance
	vc.Spin = mgl32.Vec2{}
	vc.Glide = mgl32.Vec3{}
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
