package utils

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Euler rotation orders, numbered the way fbx RotationOrder property stores them
const (
	RotationOrderXYZ = iota
	RotationOrderXZY
	RotationOrderYZX
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
	RotationOrderSphericXYZ
)

var rotationAxes = [...][3]int{
	RotationOrderXYZ: {0, 1, 2},
	RotationOrderXZY: {0, 2, 1},
	RotationOrderYZX: {1, 2, 0},
	RotationOrderYXZ: {1, 0, 2},
	RotationOrderZXY: {2, 0, 1},
	RotationOrderZYX: {2, 1, 0},
}

var unitAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// EulerToQuat converts degrees to quaternion. First axis of order is applied first
func EulerToQuat(deg mgl64.Vec3, order int) mgl64.Quat {
	if order < 0 || order >= len(rotationAxes) {
		order = RotationOrderXYZ
	}
	q := mgl64.QuatIdent()
	for _, axis := range rotationAxes[order] {
		q = mgl64.QuatRotate(mgl64.DegToRad(deg[axis]), unitAxes[axis]).Mul(q)
	}
	return q.Normalize()
}

func EulerToMat4(deg mgl64.Vec3, order int) mgl64.Mat4 {
	return EulerToQuat(deg, order).Mat4()
}

// LocalTransform builds T * Rpre * R * inverse(Rpost) * S
func LocalTransform(t, preRot, rot, postRot, s mgl64.Vec3, order int) mgl64.Mat4 {
	m := mgl64.Translate3D(t[0], t[1], t[2])
	m = m.Mul4(EulerToMat4(preRot, RotationOrderXYZ))
	m = m.Mul4(EulerToMat4(rot, order))
	m = m.Mul4(EulerToMat4(postRot, RotationOrderXYZ).Inv())
	return m.Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// Fbx stores matrices as 16 doubles in the same column order as mgl64
func Mat4ToSlice(m mgl64.Mat4) []float64 {
	out := make([]float64, 16)
	copy(out, m[:])
	return out
}

func SliceToMat4(v []float64) mgl64.Mat4 {
	if len(v) < 16 {
		return mgl64.Ident4()
	}
	var m mgl64.Mat4
	copy(m[:], v[:16])
	return m
}

func Float32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func Float64to32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
