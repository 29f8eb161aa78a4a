package reaction

// Stencil weights for the discrete Laplacian.
const (
	weightCenter   = -1.0
	weightAdjacent = 0.2
	weightDiagonal = 0.05
)

type stencilTap struct {
	dx, dy int
	w      float64
}

// laplacianStencil lists the Moore neighbourhood in row order. Weights sum to zero.
var laplacianStencil = [9]stencilTap{
	{-1, -1, weightDiagonal}, {0, -1, weightAdjacent}, {1, -1, weightDiagonal},
	{-1, 0, weightAdjacent}, {0, 0, weightCenter}, {1, 0, weightAdjacent},
	{-1, 1, weightDiagonal}, {0, 1, weightAdjacent}, {1, 1, weightDiagonal},
}

// Laplacian returns the weighted 3x3 convolution of a field at (x, y).
// The coordinate and its neighbours wrap.
func (g *Grid) Laplacian(f Field, x, y int) float64 {
	x, y = g.Wrap(x, y)
	return g.laplacian(g.Cells(f), x, y)
}

// laplacian sums w*(v-c) over the taps. Since the weights sum to zero this
// equals sum(w*v), and a uniform field yields exactly 0 instead of rounding
// residue. The centre tap contributes nothing.
func (g *Grid) laplacian(src []float64, x, y int) float64 {
	c := src[y*g.w+x]
	var sum float64
	for _, tap := range laplacianStencil {
		if tap.dx == 0 && tap.dy == 0 {
			continue
		}
		sum += tap.w * (src[g.Index(x+tap.dx, y+tap.dy)] - c)
	}
	return sum
}
