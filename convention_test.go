package parallax

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEveryConventionHasUnitWorldUp(t *testing.T) {
	for c := UpConvention(0); c < conventionCount; c++ {
		up := c.WorldUp()
		assert.InDelta(t, 1, float64(up.Len()), 1e-6, "convention %s", c)
		assert.NotEmpty(t, c.String())
		assert.NotEqual(t, "unknown", c.String())
	}
}

func TestConventionWorldUpValues(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ConventionOpenGL.WorldUp())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ConventionColmap.WorldUp())
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ConventionOpenCV.WorldUp())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, ConventionBlender.WorldUp())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, ConventionMetashape.WorldUp())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ConventionARKit.WorldUp())
}

func TestUnknownConventionFallsBack(t *testing.T) {
	bogus := UpConvention(99)
	assert.Equal(t, ConventionOpenGL.WorldUp(), bogus.WorldUp())
	assert.Equal(t, "unknown", bogus.String())
	assert.Equal(t, "unknown", UpConvention(-1).String())
}
