package flight

// Mat2 is a 2x2 matrix, row major. Operations return values and never allocate.
type Mat2 [2][2]float64

// Vec2 is a column vector.
type Vec2 [2]float64

// Identity2 returns the 2x2 identity.
func Identity2() Mat2 { return Mat2{{1, 0}, {0, 1}} }

// Diag2 returns a diagonal matrix.
func Diag2(a, d float64) Mat2 { return Mat2{{a, 0}, {0, d}} }

func (m Mat2) Add(o Mat2) Mat2 {
	return Mat2{
		{m[0][0] + o[0][0], m[0][1] + o[0][1]},
		{m[1][0] + o[1][0], m[1][1] + o[1][1]},
	}
}

func (m Mat2) Sub(o Mat2) Mat2 {
	return Mat2{
		{m[0][0] - o[0][0], m[0][1] - o[0][1]},
		{m[1][0] - o[1][0], m[1][1] - o[1][1]},
	}
}

func (m Mat2) Mul(o Mat2) Mat2 {
	var r Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

// MulVec returns m * v.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

func (m Mat2) T() Mat2 {
	return Mat2{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
}

// Inv returns the inverse of m. ok is false when m is singular.
func (m Mat2) Inv() (inv Mat2, ok bool) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if det == 0 {
		return Mat2{}, false
	}
	d := 1 / det
	return Mat2{
		{m[1][1] * d, -m[0][1] * d},
		{-m[1][0] * d, m[0][0] * d},
	}, true
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v[0] + o[0], v[1] + o[1]} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v[0] - o[0], v[1] - o[1]} }
