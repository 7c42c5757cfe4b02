package maths

// Saturate clamps val to [min, max].
func Saturate(val float64, min float64, max float64) float64 {
	if val < min {
		return min
	} else if val > max {
		return max
	} else {
		return val
	}
}

func SaturateInt(val, min, max int) int {
	if val < min {
		return min
	} else if val > max {
		return max
	}
	return val
}

// CalcZ0 is the line through (a1,z1) and (a2,z2) evaluated at a0.
// a1 and a2 are adjacent grid lines so they never coincide.
func CalcZ0(a0, a1, z1, a2, z2 float64) float64 {
	delta_z := (z2 - z1) / (a2 - a1)
	delta_a := a0 - a1
	return z1 + delta_a*delta_z
}

func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// LinearExtrapolation continues the line from inner point i through edge e
// one step past the edge.
func LinearExtrapolation(e, i float64) float64 {
	return e*2 - i
}

// CatmullRom evaluates the spline segment between p[1] and p[2] at t in [0,1].
func CatmullRom(p [4]float64, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return (p[0]*(-t+2*t2-t3) +
		p[1]*(2-5*t2+3*t3) +
		p[2]*(t+4*t2-3*t3) -
		p[3]*(t2-t3)) * 0.5
}

func BilinearInterpolation(x_target, y_target float64, x1, x2, y1, y2 float64, Q11, Q21, Q12, Q22 float64) float64 {
	R1 := CalcZ0(x_target, x1, Q11, x2, Q21)
	R2 := CalcZ0(x_target, x1, Q12, x2, Q22)
	return CalcZ0(y_target, y1, R1, y2, R2)
}
