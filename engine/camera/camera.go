package camera

import "github.com/go-gl/mathgl/mgl32"

// ProjType identifies the kind of projection held by a camera.
type ProjType int

const (
	// ProjTypePerspective is a symmetric perspective projection built with mgl32.Perspective.
	ProjTypePerspective ProjType = iota

	// ProjTypeOrthogonal is an orthographic projection built with mgl32.Ortho.
	ProjTypeOrthogonal
)

// String returns the projection type name.
func (p ProjType) String() string {
	switch p {
	case ProjTypePerspective:
		return "perspective"
	case ProjTypeOrthogonal:
		return "orthogonal"
	default:
		return "unknown"
	}
}

// Camera is a plain view and projection matrix pair.
// Both matrices use the OpenGL convention (right handed, clip z in [-1, 1]).
type Camera struct {
	View mgl32.Mat4
	Proj mgl32.Mat4
}

// NewCamera returns a Camera whose matrices are both identity.
//
// Returns:
//   - Camera: the identity camera
func NewCamera() Camera {
	return Camera{
		View: mgl32.Ident4(),
		Proj: mgl32.Ident4(),
	}
}
