package parallax

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFreeRotationKeepsUnitNorm(t *testing.T) {
	q := mgl32.QuatIdent()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		yaw := float32(rng.Float64()-0.5) * 0.4
		pitch := float32(rng.Float64()-0.5) * 0.4
		q = applyFreeRotation(q, yaw, pitch)

		if math.Abs(float64(q.Len())-1) > 1e-6 {
			t.Fatalf("quaternion norm drifted to %v after %d rotations", q.Len(), i+1)
		}
	}
}

func TestFreeRotationTinyDeltaIsNoOp(t *testing.T) {
	q := applyFreeRotation(mgl32.QuatIdent(), 0.3, -0.2)

	q2 := applyFreeRotation(q, 1e-12, 0)
	assert.Equal(t, q, q2)

	q3 := applyFreeRotation(q, 0, -1e-12)
	assert.Equal(t, q, q3)
}

func TestLockedRotationClampsElevation(t *testing.T) {
	worldUp := mgl32.Vec3{0, 1, 0}
	maxElevation := float64(math.Pi/2 - poleMargin)

	for _, pitchStep := range []float32{0.3, -0.3} {
		q := mgl32.QuatIdent()
		for i := 0; i < 200; i++ {
			q = applyLockedRotation(q, 0.01, pitchStep, worldUp)

			forward := q.Rotate(mgl32.Vec3{0, 0, -1})
			elevation := math.Abs(float64(elevationAngle(forward, worldUp)))
			if elevation > maxElevation+1e-4 {
				t.Fatalf("elevation %v exceeded the pole clamp after %d steps", elevation, i+1)
			}
		}
	}
}

func TestLockedRotationKeepsHorizonLevel(t *testing.T) {
	worldUp := mgl32.Vec3{0, 1, 0}
	rng := rand.New(rand.NewSource(11))

	q := mgl32.QuatIdent()
	for i := 0; i < 1000; i++ {
		yaw := float32(rng.Float64()-0.5) * 0.5
		pitch := float32(rng.Float64()-0.5) * 0.5
		q = applyLockedRotation(q, yaw, pitch, worldUp)
	}

	right := q.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, float64(right.Dot(worldUp)), 1e-3,
		"locked rotation must not introduce roll")
}

func TestFrameDampingLaw(t *testing.T) {
	// At the reference frame duration the per-frame factor is the damping
	// value itself, so N frames decay by damping^N.
	const n = 20
	factor := frameDamping(0.92, 16*time.Millisecond)

	v := mgl32.Vec2{1.2, -0.7}
	v0 := v.Len()
	for i := 0; i < n; i++ {
		v = dampSpin(v, factor)
	}

	expected := float64(v0) * math.Pow(0.92, n)
	assert.InEpsilon(t, expected, float64(v.Len()), 1e-4)
}

func TestFrameDampingNormalizesFrameRate(t *testing.T) {
	// One 32ms frame decays exactly as much as two 16ms frames.
	one := frameDamping(0.92, 32*time.Millisecond)
	two := frameDamping(0.92, 16*time.Millisecond)
	assert.InEpsilon(t, float64(two*two), float64(one), 1e-6)

	assert.Equal(t, float32(1), frameDamping(0.92, 0))
}

func TestDampingSnapsToExactZero(t *testing.T) {
	spin := dampSpin(mgl32.Vec2{1e-5, 1e-5}, 0.9)
	assert.Equal(t, mgl32.Vec2{}, spin)

	glide := dampGlide(mgl32.Vec3{1e-5, 0, 0}, 0.9)
	assert.Equal(t, mgl32.Vec3{}, glide)
}
