package systems

import "math"

// clamp clamps v between minVal and maxVal.
// If the interval is empty the midpoint is returned.
func clamp(v, minVal, maxVal float64) float64 {
	if minVal > maxVal {
		return (minVal + maxVal) / 2
	}
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// HeadingDelta returns the signed smallest rotation from heading a to heading b.
func HeadingDelta(a, b float64) float64 {
	return normalizeAngle(b - a)
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// Heading returns the direction of a velocity vector in radians.
func Heading(vx, vy float64) float64 {
	return math.Atan2(vy, vx)
}
