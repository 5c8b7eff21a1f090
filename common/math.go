package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Damp moves current toward target with an exponential half-life, so the
// motion speed is framerate independent.
func Damp(current, target, halfLife, dt float64) float64 {
	if halfLife <= 0 {
		return target
	}
	return Lerp(current, target, 1-math.Exp2(-dt/halfLife))
}
