package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/colornames"
)

func TestClipCorrectionMapsDepthRange(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 1, 100)
	clip := ToWebGPUClip(proj)

	near := clip.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := clip.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestExtractFrustumContainsSphere(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, -10}, 1))
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 10}, 1))
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, -200}, 1))
	for _, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5)
	}
}

func TestHSV(t *testing.T) {
	red := HSV(0, 1, 1)
	assert.InDelta(t, 1, red.X(), 1e-6)
	assert.InDelta(t, 0, red.Y(), 1e-6)

	orange := HSV(35, 1, 1)
	assert.InDelta(t, 1, orange.X(), 1e-6)
	assert.InDelta(t, 35.0/60.0, orange.Y(), 1e-4)
	assert.InDelta(t, 0, orange.Z(), 1e-6)
}

func TestRGBFromColorName(t *testing.T) {
	c := RGB(colornames.Bisque)
	assert.InDelta(t, 1, c.X(), 1e-6)
	assert.InDelta(t, 228.0/255.0, c.Y(), 1e-6)
	assert.InDelta(t, 196.0/255.0, c.Z(), 1e-6)
}

func TestAlignToAndLog2(t *testing.T) {
	assert.Equal(t, uint64(8), AlignTo(6, 4))
	assert.Equal(t, uint64(8), AlignTo(8, 4))
	assert.Equal(t, 9, Log2Floor(512))
	assert.Equal(t, 8, Log2Floor(511))
	assert.Equal(t, 0, Log2Floor(0))
}

func TestCoalesceAndClamp(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, float32(89.9), Clamp(float32(120), -89.9, 89.9))
	assert.Equal(t, -2, Clamp(-5, -2, 2))
}
