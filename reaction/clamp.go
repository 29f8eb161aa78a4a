package reaction

// Bounds applied to every value produced by Step.
const (
	ClampMin = -100.0
	ClampMax = 100.0
)

// Clamp bounds v to [ClampMin, ClampMax] so runaway reaction terms never
// reach Inf or NaN.
func Clamp(v float64) float64 {
	if v < ClampMin {
		return ClampMin
	}
	if v > ClampMax {
		return ClampMax
	}
	return v
}
