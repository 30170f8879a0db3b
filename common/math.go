package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampMagnitude limits |v| to max while keeping its sign.
func ClampMagnitude(v, max float64) float64 {
	if max < 0 {
		max = -max
	}
	return Clamp(v, -max, max)
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle wraps rad into (-Pi, Pi].
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad <= -math.Pi {
		rad += 2 * math.Pi
	} else if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}

// NearlyEqual reports whether a and b differ by at most eps.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
