package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cross computes the cross product of two 3D vectors.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns a unit vector in the same direction as v.
func Normalize(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

// TransformPoint applies a 4x4 matrix transformation to a 3D point.
func TransformPoint(m mgl32.Mat4, p [3]float32) [3]float32 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	return [3]float32{x, y, z}
}

// NormalMatrix returns the inverse transpose of m's upper 3x3.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	n := m.Mat3()
	if n.Det() == 0 {
		return mgl32.Ident3()
	}
	return n.Inv().Transpose()
}

// TransformNormal applies a normal matrix and renormalizes.
func TransformNormal(n mgl32.Mat3, v [3]float32) [3]float32 {
	r := n.Mul3x1(mgl32.Vec3(v))
	return Normalize([3]float32(r))
}
