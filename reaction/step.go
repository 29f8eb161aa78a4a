package reaction

// Step advances both fields by dt using explicit Euler integration:
//
//	A' = A + dt*(dA*Lap(A) - A*B^2 + f*(1-A))
//	B' = B + dt*(dB*Lap(B) + A*B^2 - (k+f)*B)
//
// Field A is computed in full into a scratch buffer, then field B. Each pass
// reads only pre-step values of its own field. With CouplingSequential the B
// pass sees the committed A'; with CouplingSnapshot it sees the pre-step A.
// Every stored value is clamped.
func (g *Grid) Step(dt float64) {
	nextA := g.tmp
	if g.coupling == CouplingSnapshot {
		nextA = g.tmpA
	}
	g.stepA(dt, nextA)
	if g.coupling == CouplingSequential {
		copy(g.a, nextA)
	}

	g.stepB(dt, g.tmp)
	copy(g.b, g.tmp)

	if g.coupling == CouplingSnapshot {
		copy(g.a, nextA)
	}
}

func (g *Grid) stepA(dt float64, dst []float64) {
	p := g.params
	a, b := g.a, g.b
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			av, bv := a[i], b[i]
			abb := av * bv * bv
			lap := g.laplacian(a, x, y)
			dst[i] = Clamp(av + (p.DiffusionA*lap-abb+p.Feed*(1-av))*dt)
		}
	}
}

func (g *Grid) stepB(dt float64, dst []float64) {
	p := g.params
	a, b := g.a, g.b
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			av, bv := a[i], b[i]
			abb := av * bv * bv
			lap := g.laplacian(b, x, y)
			dst[i] = Clamp(bv + (p.DiffusionB*lap+abb-(p.Kill+p.Feed)*bv)*dt)
		}
	}
}
