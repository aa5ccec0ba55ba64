package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], delta, "element %d", i)
	}
}

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestNewFreeCameraDefaults(t *testing.T) {
	c := NewFreeCamera()

	assert.Equal(t, ProjTypePerspective, c.ProjType())
	assert.Equal(t, float32(1), c.MoveSpeed())
	assert.Equal(t, float32(0.08), c.PitchSpeed())
	assert.Equal(t, float32(0.08), c.YawSpeed())
	assert.InDelta(t, 1, c.Near(), 1e-4)
	assert.InEpsilon(t, 5000, c.Far(), 5e-3)
	assertVec3Near(t, mgl32.Vec3{0, 0, 0}, c.Pos(), 1e-6)
	assertVec3Near(t, mgl32.Vec3{0, 0, -1}, c.ViewDirection(), 1e-6)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, c.Right(), 1e-6)
	assertVec3Near(t, mgl32.Vec3{0, 1, 0}, c.Up(), 1e-6)
}

func TestNewFreeCameraRejectsBadClipDistances(t *testing.T) {
	assert.Panics(t, func() { NewFreeCamera(WithNear(0)) })
	assert.Panics(t, func() { NewFreeCamera(WithNear(10), WithFar(5)) })
}

func TestClipDistanceRoundTrip(t *testing.T) {
	cases := []struct {
		name                   string
		fov, aspect, near, far float32
	}{
		{"default", 45, 4.0 / 3.0, 1, 5000},
		{"terrain", 45, 4.0 / 3.0, 0.1, 5000},
		{"wide", 90, 16.0 / 9.0, 0.5, 200},
		{"narrow", 20, 1, 2, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewFreeCamera()
			c.SetProj(mgl32.Perspective(mgl32.DegToRad(tc.fov), tc.aspect, tc.near, tc.far), ProjTypePerspective)

			assert.InEpsilon(t, tc.near, c.Near(), 1e-4)
			assert.InEpsilon(t, tc.far, c.Far(), 5e-3)
		})
	}
}

func TestOrthogonalClipDistances(t *testing.T) {
	c := NewFreeCamera()
	c.SetProj(mgl32.Ortho(-10, 10, -10, 10, 0.5, 100), ProjTypeOrthogonal)

	assert.Equal(t, ProjTypeOrthogonal, c.ProjType())
	assert.InEpsilon(t, 0.5, c.Near(), 1e-4)
	assert.InEpsilon(t, 100, c.Far(), 1e-4)
}

func TestDerivedMatricesAfterMutation(t *testing.T) {
	c := NewFreeCamera(WithSpawnPosition(3, -2, 10), WithYaw(30), WithPitch(-15))

	check := func() {
		t.Helper()
		assertMat4Near(t, c.Proj().Mul4(c.View()), c.ViewProj(), 1e-5)
		assertMat4Near(t, mgl32.Ident4(), c.ViewProj().Mul4(c.ViewProjInv()), 1e-3)
		assertMat4Near(t, mgl32.Ident4(), c.View().Mul4(c.ViewInv()), 1e-4)
		assertMat4Near(t, mgl32.Ident4(), c.Proj().Mul4(c.ProjInv()), 1e-4)
	}
	check()

	c.SetView(mgl32.LookAtV(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}))
	check()

	c.SetProj(mgl32.Perspective(mgl32.DegToRad(70), 2, 0.3, 300), ProjTypePerspective)
	check()

	c.HandleKeyPressed(common.KeyW)
	check()

	c.HandleMouseMotion(12, -7)
	check()
}

func TestBasisIsOrthonormalAfterSetView(t *testing.T) {
	eyes := []mgl32.Vec3{
		{0, 0, 10},
		{5, 5, 5},
		{-3, 8, 1},
		{100, -20, 40},
	}
	targets := []mgl32.Vec3{
		{0, 0, 0},
		{1, 2, 3},
		{-50, 0, 10},
	}

	c := NewFreeCamera()
	for _, eye := range eyes {
		for _, target := range targets {
			view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
			c.SetView(view)

			r, u, d := c.Right(), c.Up(), c.ViewDirection()
			assert.InDelta(t, 1, r.Len(), 1e-5)
			assert.InDelta(t, 1, u.Len(), 1e-5)
			assert.InDelta(t, 1, d.Len(), 1e-5)
			assert.InDelta(t, 0, r.Dot(u), 1e-5)
			assert.InDelta(t, 0, r.Dot(d), 1e-5)
			assert.InDelta(t, 0, u.Dot(d), 1e-5)

			assertVec3Near(t, target.Sub(eye).Normalize(), d, 1e-5)
			assertVec3Near(t, eye, c.Pos(), 1e-2)
		}
	}
}

func TestPitchIsClamped(t *testing.T) {
	c := NewFreeCamera()

	c.HandleMouseMotion(0, -1e6)
	assert.Equal(t, MaxPitch, c.Pitch())

	c.HandleMouseMotion(0, 2e6)
	assert.Equal(t, -MaxPitch, c.Pitch())

	c = NewFreeCamera()
	for range 100 {
		c.HandleMouseMotion(0, -50)
		assert.LessOrEqual(t, c.Pitch(), MaxPitch)
	}
	assert.Equal(t, MaxPitch, c.Pitch())

	assert.Equal(t, MaxPitch, NewFreeCamera(WithPitch(120)).Pitch())
}

func TestForwardThenBackwardReturnsEye(t *testing.T) {
	c := NewFreeCamera(WithSpawnPosition(1, 2, 3), WithYaw(40), WithPitch(20), WithMovementSpeed(2.5))
	start := c.Pos()
	dir := c.ViewDirection()

	c.HandleKeyPressed(common.KeyW)
	assertVec3Near(t, start.Add(dir.Mul(2.5)), c.Pos(), 1e-4)
	assertVec3Near(t, dir, c.ViewDirection(), 1e-5)

	c.HandleKeyPressed(common.KeyS)
	assertVec3Near(t, start, c.Pos(), 1e-4)
}

func TestStrafeAndIgnoredKeys(t *testing.T) {
	c := NewFreeCamera(WithSpawnPosition(0, 0, 10))
	right := c.Right()

	c.HandleKeyPressed(common.KeyD)
	assertVec3Near(t, mgl32.Vec3{0, 0, 10}.Add(right), c.Pos(), 1e-5)

	c.HandleKeyPressed(common.KeyA)
	assertVec3Near(t, mgl32.Vec3{0, 0, 10}, c.Pos(), 1e-5)

	before := c.View()
	c.HandleKeyPressed(common.KeyQ)
	c.HandleKeyPressed(common.KeySpace)
	assert.Equal(t, before, c.View())
}

func TestMouseMotionRotatesAboutY(t *testing.T) {
	c := NewFreeCamera(
		WithSpawnPosition(0, 0, 10),
		WithFovY(45),
		WithAspectRatio(4.0/3.0),
		WithNear(1),
		WithFar(5000),
	)
	assertVec3Near(t, mgl32.Vec3{0, 0, 10}, c.Pos(), 1e-6)
	yawBefore := c.Yaw()

	c.HandleMouseMotion(90, 0)

	assert.InDelta(t, yawBefore+90*c.YawSpeed(), c.Yaw(), 1e-5)
	theta := float64(mgl32.DegToRad(c.Yaw()))
	assertVec3Near(t, mgl32.Vec3{float32(math.Cos(theta)), 0, float32(math.Sin(theta))}, c.Right(), 1e-5)
	assertVec3Near(t, mgl32.Vec3{float32(math.Sin(theta)), 0, float32(-math.Cos(theta))}, c.ViewDirection(), 1e-5)
	assertVec3Near(t, mgl32.Vec3{0, 1, 0}, c.Up(), 1e-5)
	assertVec3Near(t, mgl32.Vec3{0, 0, 10}, c.Pos(), 1e-4)
}

func TestSetYawSpeedChangesSensitivityOnly(t *testing.T) {
	c := NewFreeCamera(WithYaw(10))
	c.SetYawSpeed(0.5)
	c.SetPitchSpeed(0.25)
	c.SetMovementSpeed(4)

	assert.Equal(t, float32(10), c.Yaw())
	assert.Equal(t, float32(0.5), c.YawSpeed())
	assert.Equal(t, float32(0.25), c.PitchSpeed())
	assert.Equal(t, float32(4), c.MoveSpeed())

	c.HandleMouseMotion(2, 4)
	assert.InDelta(t, 11, c.Yaw(), 1e-5)
	assert.InDelta(t, -1, c.Pitch(), 1e-5)
}

func TestHandleResizeEventKeepsFovAndClip(t *testing.T) {
	c := NewFreeCamera(WithFovY(60), WithNear(0.5), WithFar(500))
	p11 := c.Proj().At(1, 1)

	c.HandleResizeEvent(1600, 900)

	assert.InDelta(t, p11, c.Proj().At(1, 1), 1e-5)
	assert.InDelta(t, p11/(1600.0/900.0), c.Proj().At(0, 0), 1e-5)
	assert.InEpsilon(t, 0.5, c.Near(), 1e-3)
	assert.InEpsilon(t, 500, c.Far(), 5e-3)

	before := c.Proj()
	c.HandleResizeEvent(0, 0)
	assert.Equal(t, before, c.Proj())
}

func TestHandleResizeEventPanicsForOrthogonal(t *testing.T) {
	c := NewFreeCamera()
	c.SetProj(mgl32.Ortho(-1, 1, -1, 1, 1, 10), ProjTypeOrthogonal)

	assert.Panics(t, func() { c.HandleResizeEvent(800, 600) })
}

func TestFrustumFollowsCamera(t *testing.T) {
	c := NewFreeCamera(WithSpawnPosition(0, 0, 10))

	f := c.Frustum()
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, 0}, 1))
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 20}, 1))
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewFreeCamera(WithSpawnPosition(1, 2, 3))
	u := NewGPUCameraUniform(c)

	require.Equal(t, 80, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 80)

	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[72:])))

	want := common.ToWebGPUClip(c.ViewProj())
	assert.Equal(t, want[0], math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, want[14], math.Float32frombits(binary.LittleEndian.Uint32(buf[56:])))
}

func TestNewCameraIsIdentity(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Ident4(), c.View)
	assert.Equal(t, mgl32.Ident4(), c.Proj)
	assert.Equal(t, "perspective", ProjTypePerspective.String())
}
