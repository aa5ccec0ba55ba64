package common

import (
	"math/bits"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipCorrection remaps OpenGL clip space depth [-1, 1] to the WebGPU range [0, 1].
// Matrices built with mgl32.Perspective or mgl32.Ortho must be pre-multiplied by it
// before being handed to a WGSL shader.
var ClipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// ToWebGPUClip converts an OpenGL style clip matrix into WebGPU clip space.
//
// Parameters:
//   - m: a projection or view-projection matrix producing OpenGL clip coordinates
//
// Returns:
//   - mgl32.Mat4: the corrected matrix
func ToWebGPUClip(m mgl32.Mat4) mgl32.Mat4 {
	return ClipCorrection.Mul4(m)
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// AlignTo rounds size up to the next multiple of alignment.
// WebGPU requires buffer writes and copies to be 4-byte aligned.
//
// Parameters:
//   - size: the unaligned size in bytes
//   - alignment: the required alignment (must be a power of two)
//
// Returns:
//   - uint64: the aligned size
func AlignTo(size, alignment uint64) uint64 {
	return (size + alignment - 1) &^ (alignment - 1)
}

// BuildModelMatrix constructs a model matrix from position, Euler rotation, and uniform scale.
// The rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func BuildModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rot.Y()).
		Mul4(mgl32.HomogRotate3DX(rot.X())).
		Mul4(mgl32.HomogRotate3DZ(rot.Z()))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of a model matrix,
// widened back to a Mat4 so it satisfies WGSL uniform alignment.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	return model.Mat3().Inv().Transpose().Mat4()
}

// Log2Floor returns floor(log2(n)) for n >= 1 and 0 otherwise.
//
// Parameters:
//   - n: the value
//
// Returns:
//   - int: the integer base two logarithm
func Log2Floor(n int) int {
	if n < 1 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}
