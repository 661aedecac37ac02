package parallax

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

// CameraComponent is the pose the renderer consumes: world position, a unit
// orientation quaternion and the active projection. It is written once per
// frame by the viewport camera control system and should not be mutated by
// anything else.
type CameraComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat

	Projection ProjectionKind
	Fov        float32 // vertical field of view, radians (perspective)
	Aspect     float32
	Near       float32
	Far        float32

	// Orthographic framing. Zoom is a multiplicative factor layered on top
	// of HalfHeight and is independent of the orbit distance.
	OrthoHalfHeight float32
	OrthoZoom       float32

	// Generation increments whenever the pose or projection changes, so
	// the renderer can skip matrix recomputation on quiet frames.
	Generation uint64
}

func NewCameraComponent(aspect float32) CameraComponent {
	return CameraComponent{
		Rotation:  mgl32.QuatIdent(),
		Fov:       mgl32.DegToRad(60),
		Aspect:    aspect,
		Near:      0.1,
		Far:       10000,
		OrthoZoom: 1,
	}
}

func (c *CameraComponent) Forward() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *CameraComponent) Right() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *CameraComponent) Up() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (c *CameraComponent) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(
		c.Position,
		c.Position.Add(c.Forward()),
		c.Up(),
	)
}

func (c *CameraComponent) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == Orthographic {
		zoom := c.OrthoZoom
		if zoom <= 0 {
			zoom = 1
		}
		hh := c.OrthoHalfHeight / zoom
		hw := hh * c.Aspect
		return mgl32.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
	}
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

func (c *CameraComponent) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// lookAtOrientation builds the orientation of a camera standing at eye and
// facing center, constructed from an explicit basis so the forward axis is
// exactly normalize(center-eye). A degenerate up vector (parallel to the
// view direction) falls back to secondary reference axes.
func lookAtOrientation(eye, center, up mgl32.Vec3) mgl32.Quat {
	f := center.Sub(eye)
	if f.Len() < 1e-8 {
		return mgl32.QuatIdent()
	}
	f = f.Normalize()

	r := f.Cross(up)
	if r.Len() < 1e-6 {
		r = f.Cross(mgl32.Vec3{0, 0, 1})
		if r.Len() < 1e-6 {
			r = f.Cross(mgl32.Vec3{1, 0, 0})
		}
	}
	r = r.Normalize()
	u := r.Cross(f)

	m := mgl32.Mat3FromCols(r, u, f.Mul(-1))
	return mgl32.Mat4ToQuat(m.Mat4()).Normalize()
}

// elevationAngle is the angle between forward and the horizon plane defined
// by worldUp, in radians; positive when looking above the horizon.
func elevationAngle(forward, worldUp mgl32.Vec3) float32 {
	d := float64(forward.Dot(worldUp))
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return float32(math.Asin(d))
}
