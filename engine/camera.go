package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

var (
	cameraEye    = mgl32.Vec3{0.15, 0.15, -0.5}
	cameraTarget = mgl32.Vec3{0, 0, 0}
	cameraUp     = mgl32.Vec3{0, 1, 0}
)

// orthographic depth range
const (
	orthoNear = -1
	orthoFar  = 1
)

// AspectRatio returns width/height, or 1 when either side is not positive
// (minimized or zero sized surfaces).
func AspectRatio(width, height int) float32 {
	if width > 0 && height > 0 {
		return float32(width) / float32(height)
	}
	return 1
}

// OrthoTransform spans [-aspect, aspect] x [-1, 1] x [-1, 1].
func OrthoTransform(aspect float32) mgl32.Mat4 {
	return mgl32.Ortho(-aspect, aspect, -1, 1, orthoNear, orthoFar)
}

// LookAtTransform views the origin from the fixed camera position.
func LookAtTransform() mgl32.Mat4 {
	return mgl32.LookAtV(cameraEye, cameraTarget, cameraUp)
}

// Transform computes the MVP of a mode for the current aspect ratio.
func Transform(mode Mode, aspect float32) mgl32.Mat4 {
	if mode.projection() == projectionOrtho {
		return OrthoTransform(aspect)
	}
	return LookAtTransform()
}
