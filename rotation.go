package parallax

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Deltas below this are dropped before axis construction; composing a
	// quaternion out of a degenerate rotation produces NaNs.
	rotationEpsilon = 1e-10

	// Horizon lock keeps the elevation angle inside ±(90° - poleMargin).
	poleMargin = 0.01

	// Velocities with magnitude below these are treated as exactly zero so
	// damping cannot leave a creeping residual drift.
	spinRest  = 1e-4
	glideRest = 1e-4
)

// applyFreeRotation composes incremental rotations about the camera's
// current local X and Y axes onto q. Recomputing the axes from the live
// orientation on every call is what avoids gimbal lock here; there are no
// persistent Euler angles anywhere in this controller.
func applyFreeRotation(q mgl32.Quat, yaw, pitch float32) mgl32.Quat {
	if math.Abs(float64(yaw)) < rotationEpsilon && math.Abs(float64(pitch)) < rotationEpsilon {
		return q
	}
	if math.Abs(float64(yaw)) >= rotationEpsilon {
		up := q.Rotate(mgl32.Vec3{0, 1, 0})
		q = mgl32.QuatRotate(yaw, up).Mul(q)
	}
	if math.Abs(float64(pitch)) >= rotationEpsilon {
		right := q.Rotate(mgl32.Vec3{1, 0, 0})
		q = mgl32.QuatRotate(pitch, right).Mul(q)
	}
	return q.Normalize()
}

// applyLockedRotation yaws about the fixed world-up axis instead of the
// camera's local Y, which keeps the horizon level. Pitch still rotates
// about local X, but the requested delta is clamped so the resulting
// elevation never reaches the poles; without the clamp the view snaps
// upside-down when the forward vector crosses world-up.
func applyLockedRotation(q mgl32.Quat, yaw, pitch float32, worldUp mgl32.Vec3) mgl32.Quat {
	if math.Abs(float64(yaw)) >= rotationEpsilon {
		q = mgl32.QuatRotate(yaw, worldUp).Mul(q)
	}

	forward := q.Rotate(mgl32.Vec3{0, 0, -1})
	elevation := elevationAngle(forward, worldUp)
	maxElevation := float32(math.Pi/2) - poleMargin

	goal := elevation + pitch
	if goal > maxElevation {
		goal = maxElevation
	} else if goal < -maxElevation {
		goal = -maxElevation
	}
	delta := goal - elevation

	if math.Abs(float64(delta)) >= rotationEpsilon {
		right := q.Rotate(mgl32.Vec3{1, 0, 0})
		q = mgl32.QuatRotate(delta, right).Mul(q)
	}
	return q.Normalize()
}

// frameDamping converts a per-reference-frame damping factor into the
// equivalent factor for an arbitrary frame duration, so the decay law is
// independent of the actual frame rate: damping^(dt/referenceFrame).
func frameDamping(damping float32, dt time.Duration) float32 {
	if dt <= 0 {
		return 1
	}
	exp := float64(dt) / float64(referenceFrame)
	return float32(math.Pow(float64(damping), exp))
}

// dampSpin decays a 2D angular velocity, snapping to exact zero at rest.
func dampSpin(v mgl32.Vec2, factor float32) mgl32.Vec2 {
	v = v.Mul(factor)
	if v.Len() < spinRest {
		return mgl32.Vec2{}
	}
	return v
}

// dampGlide decays a 3D translation velocity, snapping to exact zero at rest.
func dampGlide(v mgl32.Vec3, factor float32) mgl32.Vec3 {
	v = v.Mul(factor)
	if v.Len() < glideRest {
		return mgl32.Vec3{}
	}
	return v
}
