package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch is the largest pitch magnitude in degrees. Staying below 90 keeps the
// Euler composition away from the gimbal singularity.
const MaxPitch float32 = 89.9

// freeCamera is the implementation of the FreeCamera interface.
type freeCamera struct {
	mu *sync.Mutex

	cam Camera

	viewInv     mgl32.Mat4
	projInv     mgl32.Mat4
	viewProj    mgl32.Mat4
	viewProjInv mgl32.Mat4
	projType    ProjType

	eye   mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3
	dir   mgl32.Vec3

	// angles in degrees
	pitch      float32
	yaw        float32
	roll       float32
	pitchSpeed float32
	yawSpeed   float32

	near float32
	far  float32

	moveSpeed float32

	// construction parameters, only read by NewFreeCamera
	fovY   float32
	aspect float32
}

// FreeCamera is a first-person camera that keeps a view/projection pair and all of
// the matrices derived from it consistent. It is driven by discrete keyboard and
// mouse events and can also be set directly through SetView and SetProj.
type FreeCamera interface {
	// Camera returns a copy of the view/projection pair.
	//
	// Returns:
	//   - Camera: the current matrices
	Camera() Camera

	// View returns the view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world to camera transform
	View() mgl32.Mat4

	// Proj returns the projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the camera to clip transform (OpenGL clip space)
	Proj() mgl32.Mat4

	// ViewInv returns the inverse of the view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the camera to world transform
	ViewInv() mgl32.Mat4

	// ProjInv returns the inverse of the projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the clip to camera transform
	ProjInv() mgl32.Mat4

	// ViewProj returns Proj * View.
	//
	// Returns:
	//   - mgl32.Mat4: the world to clip transform
	ViewProj() mgl32.Mat4

	// ViewProjInv returns the inverse of ViewProj.
	//
	// Returns:
	//   - mgl32.Mat4: the clip to world transform
	ViewProjInv() mgl32.Mat4

	// ProjType returns the type of the current projection.
	//
	// Returns:
	//   - ProjType: perspective or orthogonal
	ProjType() ProjType

	// Pos returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Pos() mgl32.Vec3

	// ViewDirection returns the unit forward vector.
	//
	// Returns:
	//   - mgl32.Vec3: the direction the camera looks along
	ViewDirection() mgl32.Vec3

	// Up returns the unit up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the camera up vector
	Up() mgl32.Vec3

	// Right returns the unit right vector.
	//
	// Returns:
	//   - mgl32.Vec3: the camera right vector
	Right() mgl32.Vec3

	// MoveSpeed returns the distance travelled per movement key press.
	//
	// Returns:
	//   - float32: the movement speed in world units
	MoveSpeed() float32

	// Pitch returns the pitch angle in degrees.
	//
	// Returns:
	//   - float32: the pitch in [-MaxPitch, MaxPitch]
	Pitch() float32

	// Yaw returns the yaw angle in degrees.
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// Roll returns the roll angle in degrees.
	//
	// Returns:
	//   - float32: the roll angle
	Roll() float32

	// PitchSpeed returns the pitch sensitivity in degrees per unit of mouse motion.
	//
	// Returns:
	//   - float32: the pitch sensitivity
	PitchSpeed() float32

	// YawSpeed returns the yaw sensitivity in degrees per unit of mouse motion.
	//
	// Returns:
	//   - float32: the yaw sensitivity
	YawSpeed() float32

	// Near returns the near clip distance recovered from the projection matrix.
	//
	// Returns:
	//   - float32: the near distance
	Near() float32

	// Far returns the far clip distance recovered from the projection matrix.
	//
	// Returns:
	//   - float32: the far distance
	Far() float32

	// Frustum returns the world space frustum planes of the current view-projection.
	//
	// Returns:
	//   - common.Frustum: the six normalized planes
	Frustum() common.Frustum

	// SetView replaces the view matrix, refreshes every derived matrix and
	// re-derives the eye position and basis vectors from it.
	//
	// Parameters:
	//   - view: the new world to camera transform
	SetView(view mgl32.Mat4)

	// SetProj replaces the projection matrix, refreshes every derived matrix and
	// recovers the near and far distances from it.
	//
	// Parameters:
	//   - proj: the new projection matrix
	//   - projType: the kind of projection proj is
	SetProj(proj mgl32.Mat4, projType ProjType)

	// SetMovementSpeed sets the distance travelled per movement key press.
	//
	// Parameters:
	//   - speed: the movement speed in world units
	SetMovementSpeed(speed float32)

	// SetPitchSpeed sets the pitch sensitivity.
	//
	// Parameters:
	//   - speed: degrees of pitch per unit of vertical mouse motion
	SetPitchSpeed(speed float32)

	// SetYawSpeed sets the yaw sensitivity.
	//
	// Parameters:
	//   - speed: degrees of yaw per unit of horizontal mouse motion
	SetYawSpeed(speed float32)

	// HandleKeyPressed moves the eye for W, A, S and D and ignores every other key.
	// Movement keeps the current orientation exactly.
	//
	// Parameters:
	//   - key: the GLFW key code
	HandleKeyPressed(key uint32)

	// HandleMouseMotion accumulates yaw and pitch from a relative mouse motion and
	// rebuilds the view from the Euler angles.
	//
	// Parameters:
	//   - dx: horizontal motion
	//   - dy: vertical motion, positive up
	HandleMouseMotion(dx, dy float32)

	// HandleResizeEvent rebuilds the perspective projection for a new viewport size,
	// keeping the field of view and clip distances. Panics for any other projection type.
	//
	// Parameters:
	//   - width: the new viewport width in pixels
	//   - height: the new viewport height in pixels
	HandleResizeEvent(width, height int)
}

var _ FreeCamera = &freeCamera{}

// NewFreeCamera creates a FreeCamera. Without options it sits at the origin looking
// down -Z with a 45 degree vertical field of view, a 4:3 aspect ratio and clip
// distances of 1 and 5000.
//
// Parameters:
//   - options: functional options applied before the matrices are built
//
// Returns:
//   - FreeCamera: the configured camera
func NewFreeCamera(options ...FreeCameraBuilderOption) FreeCamera {
	c := &freeCamera{
		mu:         &sync.Mutex{},
		cam:        NewCamera(),
		projType:   ProjTypePerspective,
		pitchSpeed: 0.08,
		yawSpeed:   0.08,
		moveSpeed:  1,
		fovY:       45,
		aspect:     4.0 / 3.0,
		near:       1,
		far:        5000,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.near <= 0 || c.far <= c.near {
		panic(fmt.Sprintf("camera: invalid clip distances near=%v far=%v", c.near, c.far))
	}
	c.pitch = common.Clamp(c.pitch, -MaxPitch, MaxPitch)

	c.setProj(mgl32.Perspective(mgl32.DegToRad(c.fovY), c.aspect, c.near, c.far), ProjTypePerspective)
	c.setView(c.eulerView())
	return c
}

func (c *freeCamera) Camera() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cam
}

func (c *freeCamera) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cam.View
}

func (c *freeCamera) Proj() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cam.Proj
}

func (c *freeCamera) ViewInv() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewInv
}

func (c *freeCamera) ProjInv() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projInv
}

func (c *freeCamera) ViewProj() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProj
}

func (c *freeCamera) ViewProjInv() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjInv
}

func (c *freeCamera) ProjType() ProjType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projType
}

func (c *freeCamera) Pos() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *freeCamera) ViewDirection() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

func (c *freeCamera) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *freeCamera) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *freeCamera) MoveSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveSpeed
}

func (c *freeCamera) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

func (c *freeCamera) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw
}

func (c *freeCamera) Roll() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roll
}

func (c *freeCamera) PitchSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitchSpeed
}

func (c *freeCamera) YawSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yawSpeed
}

func (c *freeCamera) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *freeCamera) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *freeCamera) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProj)
}

func (c *freeCamera) SetView(view mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setView(view)
}

func (c *freeCamera) SetProj(proj mgl32.Mat4, projType ProjType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setProj(proj, projType)
}

func (c *freeCamera) SetMovementSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveSpeed = speed
}

func (c *freeCamera) SetPitchSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitchSpeed = speed
}

func (c *freeCamera) SetYawSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yawSpeed = speed
}

func (c *freeCamera) HandleKeyPressed(key uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch key {
	case common.KeyW:
		c.eye = c.eye.Add(c.dir.Mul(c.moveSpeed))
	case common.KeyS:
		c.eye = c.eye.Sub(c.dir.Mul(c.moveSpeed))
	case common.KeyA:
		c.eye = c.eye.Sub(c.right.Mul(c.moveSpeed))
	case common.KeyD:
		c.eye = c.eye.Add(c.right.Mul(c.moveSpeed))
	default:
		return
	}
	c.setView(buildView(c.right, c.up, c.dir, c.eye))
}

func (c *freeCamera) HandleMouseMotion(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.yaw += c.yawSpeed * dx
	c.pitch = common.Clamp(c.pitch+c.pitchSpeed*-dy, -MaxPitch, MaxPitch)
	c.setView(c.eulerView())
}

func (c *freeCamera) HandleResizeEvent(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.projType != ProjTypePerspective {
		panic(fmt.Sprintf("camera: resize is not supported for %s projections", c.projType))
	}
	if width <= 0 || height <= 0 {
		return
	}

	fovY := 2 * math32.Atan(1/c.cam.Proj.At(1, 1))
	aspect := float32(width) / float32(height)
	c.setProj(mgl32.Perspective(fovY, aspect, c.near, c.far), ProjTypePerspective)
}

// setView stores the view matrix and refreshes derived state. Caller holds mu.
func (c *freeCamera) setView(view mgl32.Mat4) {
	c.cam.View = view
	c.viewInv = affineInverse(view)
	c.updateViewProj()

	c.right = view.Row(0).Vec3().Normalize()
	c.up = view.Row(1).Vec3().Normalize()
	c.dir = view.Row(2).Vec3().Normalize().Mul(-1)
	c.eye = c.viewInv.Col(3).Vec3()
}

// setProj stores the projection matrix and refreshes derived state. Caller holds mu.
func (c *freeCamera) setProj(proj mgl32.Mat4, projType ProjType) {
	c.cam.Proj = proj
	c.projType = projType
	c.projInv = proj.Inv()
	c.updateViewProj()
	c.near, c.far = clipDistances(proj, projType)
}

func (c *freeCamera) updateViewProj() {
	c.viewProj = c.cam.Proj.Mul4(c.cam.View)
	c.viewProjInv = c.viewProj.Inv()
}

// eulerView composes roll * pitch * yaw * translate(-eye).
func (c *freeCamera) eulerView() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(c.roll)).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.pitch))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.yaw))).
		Mul4(mgl32.Translate3D(-c.eye.X(), -c.eye.Y(), -c.eye.Z()))
}

// buildView builds a view matrix straight from an orthonormal basis and an eye position.
// The rotation rows are right, up and -dir.
func buildView(right, up, dir, eye mgl32.Vec3) mgl32.Mat4 {
	rot := mgl32.Mat4{
		right.X(), up.X(), -dir.X(), 0,
		right.Y(), up.Y(), -dir.Y(), 0,
		right.Z(), up.Z(), -dir.Z(), 0,
		0, 0, 0, 1,
	}
	return rot.Mul4(mgl32.Translate3D(-eye.X(), -eye.Y(), -eye.Z()))
}

// affineInverse inverts a matrix whose last row is (0, 0, 0, 1).
func affineInverse(m mgl32.Mat4) mgl32.Mat4 {
	inv := m.Mat3().Inv()
	t := inv.Mul3x1(m.Col(3).Vec3()).Mul(-1)
	out := inv.Mat4()
	out.SetCol(3, t.Vec4(1))
	return out
}

// clipDistances recovers near and far from a projection built by mgl32.Perspective
// or mgl32.Ortho. With P22 = At(2,2) and P32 = At(2,3):
//
//	perspective: near = P32/(P22-1), far = P32/(P22+1)
//	orthogonal:  near = (P32+1)/P22, far = (P32-1)/P22
func clipDistances(proj mgl32.Mat4, projType ProjType) (near, far float32) {
	p22 := proj.At(2, 2)
	p32 := proj.At(2, 3)
	switch projType {
	case ProjTypeOrthogonal:
		return (p32 + 1) / p22, (p32 - 1) / p22
	default:
		return p32 / (p22 - 1), p32 / (p22 + 1)
	}
}
