package scenario

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// defaultNoiseScale is used when a noise seed leaves scale unset.
const defaultNoiseScale = 0.05

// noiseMask returns a predicate selecting cells whose normalized simplex
// noise is at or above threshold. Each axis is mapped onto a circle in 4D
// noise space so the pattern tiles seamlessly across the torus.
func noiseMask(w, h int, seed int64, scale, threshold float64) func(x, y int) bool {
	if scale <= 0 {
		scale = defaultNoiseScale
	}
	n := opensimplex.NewNormalized(seed)

	// Circle radii giving roughly `scale` noise units per cell along each axis
	rx := scale * float64(w) / (2 * math.Pi)
	ry := scale * float64(h) / (2 * math.Pi)

	return func(x, y int) bool {
		ax := 2 * math.Pi * float64(x) / float64(w)
		ay := 2 * math.Pi * float64(y) / float64(h)
		v := n.Eval4(rx*math.Cos(ax), rx*math.Sin(ax), ry*math.Cos(ay), ry*math.Sin(ay))
		return v >= threshold
	}
}
