package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NormalizeEpsilon is the squared length below which a vector is treated as zero
const NormalizeEpsilon = 1e-18

// IsFinite reports whether every component is a real number
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// TryNormalize returns the unit vector of v and false when v has no usable direction
func TryNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	if !IsFinite(v) {
		return mgl64.Vec3{}, false
	}
	magSq := v.LenSqr()
	if magSq <= NormalizeEpsilon {
		return mgl64.Vec3{}, false
	}
	inv := 1.0 / math.Sqrt(magSq)
	return mgl64.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, true
}

// NormalizeOrZero mirrors TryNormalize without the flag
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	n, _ := TryNormalize(v)
	return n
}

// ProjectOnPlane removes the component of v along the unit plane normal n
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// SignNonZero returns -1 for negative input and +1 otherwise
// Support mappings use it so a zero component still selects a vertex
func SignNonZero(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
