package camera

import "github.com/go-gl/mathgl/mgl32"

// FreeCameraBuilderOption is a functional option applied by NewFreeCamera before the
// projection and view matrices are built.
type FreeCameraBuilderOption func(*freeCamera)

// WithSpawnPosition sets the initial eye position.
//
// Parameters:
//   - x, y, z: the eye position in world space
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithSpawnPosition(x, y, z float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.eye = mgl32.Vec3{x, y, z}
	}
}

// WithPitch sets the initial pitch. Values beyond MaxPitch are clamped.
//
// Parameters:
//   - degrees: the pitch angle
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithPitch(degrees float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.pitch = degrees
	}
}

// WithYaw sets the initial yaw.
//
// Parameters:
//   - degrees: the yaw angle
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithYaw(degrees float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.yaw = degrees
	}
}

// WithFovY sets the vertical field of view.
//
// Parameters:
//   - degrees: the vertical field of view (default 45)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithFovY(degrees float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.fovY = degrees
	}
}

// WithAspectRatio sets the viewport aspect ratio.
//
// Parameters:
//   - aspect: width divided by height (default 4/3)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithAspectRatio(aspect float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.aspect = aspect
	}
}

// WithNear sets the near clip distance.
//
// Parameters:
//   - near: the near distance (default 1, must be > 0)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithNear(near float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.near = near
	}
}

// WithFar sets the far clip distance.
//
// Parameters:
//   - far: the far distance (default 5000, must be > near)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithFar(far float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.far = far
	}
}

// WithMovementSpeed sets the distance travelled per movement key press.
//
// Parameters:
//   - speed: world units per press (default 1)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithMovementSpeed(speed float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.moveSpeed = speed
	}
}

// WithPitchSpeed sets the pitch sensitivity.
//
// Parameters:
//   - speed: degrees per unit of vertical mouse motion (default 0.08)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithPitchSpeed(speed float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.pitchSpeed = speed
	}
}

// WithYawSpeed sets the yaw sensitivity.
//
// Parameters:
//   - speed: degrees per unit of horizontal mouse motion (default 0.08)
//
// Returns:
//   - FreeCameraBuilderOption: option function to apply
func WithYawSpeed(speed float32) FreeCameraBuilderOption {
	return func(c *freeCamera) {
		c.yawSpeed = speed
	}
}
