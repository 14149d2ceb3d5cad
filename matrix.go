package raster

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix is a 3x3 homogeneous transformation matrix in row-major order:
//
//	| a b c |
//	| d e f |
//	| g h i |
//
// It maps (x, y, 1) to (x', y', z); the transformed point is (x'/z, y'/z).
type Matrix [9]float64

// degenerate is the smallest |z| a mapped point may have.
const degenerate = 1e-7

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translate returns a matrix adding (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{
		1, 0, x,
		0, 1, y,
		0, 0, 1,
	}
}

// Scale returns a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		x, 0, 0,
		0, y, 0,
		0, 0, 1,
	}
}

// Rotation returns a rotation about the origin by angle radians. Used as
// a destination to source map, a positive angle turns the image clockwise.
func Rotation(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	}
}

// FromAff3 extends a 2x3 affine matrix to a homogeneous one.
func FromAff3(a f64.Aff3) Matrix {
	return Matrix{
		a[0], a[1], a[2],
		a[3], a[4], a[5],
		0, 0, 1,
	}
}

// Mul returns m * n.
func (m Matrix) Mul(n Matrix) Matrix {
	var r Matrix
	for i := range 3 {
		for j := range 3 {
			var accum float64
			for k := range 3 {
				accum += m[3*i+k] * n[3*k+j]
			}
			r[3*i+j] = accum
		}
	}
	return r
}

// Apply maps (x, y) through m. It reports false when the homogeneous
// divisor is too close to zero.
func (m Matrix) Apply(x, y float64) (float64, float64, bool) {
	z := x*m[6] + y*m[7] + m[8]
	if math.Abs(z) <= degenerate {
		return 0, 0, false
	}
	return (x*m[0] + y*m[1] + m[2]) / z, (x*m[3] + y*m[4] + m[5]) / z, true
}

// Invert returns the inverse of m, or false if m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	co0 := e*i - f*h
	co1 := f*g - d*i
	co2 := d*h - e*g
	det := a*co0 + b*co1 + c*co2
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		co0 * inv, (c*h - b*i) * inv, (b*f - c*e) * inv,
		co1 * inv, (a*i - c*g) * inv, (c*d - a*f) * inv,
		co2 * inv, (b*g - a*h) * inv, (a*e - b*d) * inv,
	}, true
}

// RotatedSize returns the size of the canvas that holds a width x height
// image rotated by angle radians.
func RotatedSize(width, height int, angle float64) (int, int) {
	r := Rotation(angle)
	w, h := float64(width), float64(height)
	x1 := math.Ceil(math.Abs(w*r[0] + h*r[1]))
	x2 := math.Ceil(math.Abs(w*r[0] - h*r[1]))
	y1 := math.Ceil(math.Abs(w*r[3] + h*r[4]))
	y2 := math.Ceil(math.Abs(w*r[3] - h*r[4]))
	return int(math.Max(x1, x2)), int(math.Max(y1, y2))
}

// RotateMatrix returns the destination to source matrix rotating a
// width x height image by angle radians about its center, together with the
// size of the rotated canvas.
func RotateMatrix(width, height int, angle float64) (m Matrix, newWidth, newHeight int) {
	newWidth, newHeight = RotatedSize(width, height, angle)
	toOrigin := Translate(float64(width)/2, float64(height)/2)
	toCenter := Translate(-float64(newWidth)/2, -float64(newHeight)/2)
	m = toOrigin.Mul(Rotation(angle)).Mul(toCenter)
	return
}
