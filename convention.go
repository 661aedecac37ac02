package parallax

import (
	"github.com/go-gl/mathgl/mgl32"
)

// UpConvention names the axis convention the loaded reconstruction was
// authored under. The only thing the controller needs from it is the
// world-up direction, used by horizon lock, auto-rotate and the discrete
// reset/axis views.
type UpConvention int

const (
	ConventionOpenGL    UpConvention = iota // +Y up, -Z forward
	ConventionColmap                        // vision convention, +Y points down
	ConventionOpenCV                        // same handedness as COLMAP
	ConventionBlender                       // +Z up
	ConventionUnity                         // +Y up, left-handed source data
	ConventionUnreal                        // +Z up
	ConventionROS                           // +Z up
	ConventionMetashape                     // +Z up
	ConventionARKit                         // +Y up

	conventionCount
)

var conventionUp = [conventionCount]mgl32.Vec3{
	ConventionOpenGL:    {0, 1, 0},
	ConventionColmap:    {0, -1, 0},
	ConventionOpenCV:    {0, -1, 0},
	ConventionBlender:   {0, 0, 1},
	ConventionUnity:     {0, 1, 0},
	ConventionUnreal:    {0, 0, 1},
	ConventionROS:       {0, 0, 1},
	ConventionMetashape: {0, 0, 1},
	ConventionARKit:     {0, 1, 0},
}

var conventionName = [conventionCount]string{
	ConventionOpenGL:    "opengl",
	ConventionColmap:    "colmap",
	ConventionOpenCV:    "opencv",
	ConventionBlender:   "blender",
	ConventionUnity:     "unity",
	ConventionUnreal:    "unreal",
	ConventionROS:       "ros",
	ConventionMetashape: "metashape",
	ConventionARKit:     "arkit",
}

// WorldUp returns the convention's up direction as a unit vector.
// Unknown values fall back to the OpenGL convention.
func (c UpConvention) WorldUp() mgl32.Vec3 {
	if c < 0 || c >= conventionCount {
		return conventionUp[ConventionOpenGL]
	}
	return conventionUp[c]
}

func (c UpConvention) String() string {
	if c < 0 || c >= conventionCount {
		return "unknown"
	}
	return conventionName[c]
}
