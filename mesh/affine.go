package mesh

import "math"

// Affine is a 3D affine transform: a 3x3 linear part followed by a translation.
// Points map as p' = L·p + T.
type Affine struct {
	L [3][3]float64
	T Vec3
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{L: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translate returns a pure translation.
func Translate(v Vec3) Affine {
	m := Identity()
	m.T = v
	return m
}

// Scale returns a non-uniform scale about the origin.
func Scale(sx, sy, sz float64) Affine {
	return Affine{L: [3][3]float64{{sx, 0, 0}, {0, sy, 0}, {0, 0, sz}}}
}

// RotateX returns a rotation of angle radians about the x axis (right-handed).
func RotateX(angle float64) Affine {
	s, c := math.Sincos(angle)
	// exact quarter turns keep the output free of 1e-17 noise
	if math.Abs(c) < 1e-15 {
		c = 0
	}
	if math.Abs(s) < 1e-15 {
		s = 0
	}
	return Affine{L: [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}}
}

// Mul returns the transform applying o first, then m.
func (m Affine) Mul(o Affine) Affine {
	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.L[i][j] = m.L[i][0]*o.L[0][j] + m.L[i][1]*o.L[1][j] + m.L[i][2]*o.L[2][j]
		}
	}
	out.T = m.applyLinear(o.T).Add(m.T)
	return out
}

// Apply transforms point p.
func (m Affine) Apply(p Vec3) Vec3 {
	return m.applyLinear(p).Add(m.T)
}

func (m Affine) applyLinear(p Vec3) Vec3 {
	return Vec3{
		m.L[0][0]*p.X + m.L[0][1]*p.Y + m.L[0][2]*p.Z,
		m.L[1][0]*p.X + m.L[1][1]*p.Y + m.L[1][2]*p.Z,
		m.L[2][0]*p.X + m.L[2][1]*p.Y + m.L[2][2]*p.Z,
	}
}

// Det returns the determinant of the linear part. A negative value means the
// transform mirrors, so face winding has to be flipped to keep normals outward.
func (m Affine) Det() float64 {
	l := m.L
	return l[0][0]*(l[1][1]*l[2][2]-l[1][2]*l[2][1]) -
		l[0][1]*(l[1][0]*l[2][2]-l[1][2]*l[2][0]) +
		l[0][2]*(l[1][0]*l[2][1]-l[1][1]*l[2][0])
}
