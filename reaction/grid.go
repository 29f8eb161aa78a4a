// Package reaction implements a Gray-Scott reaction-diffusion simulation on a
// toroidal grid of two concentration fields.
package reaction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned when a field name cannot be parsed.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownCoupling is returned when a coupling name cannot be parsed.
	ErrUnknownCoupling = errors.New("unknown coupling")
)

// Field selects one of the two concentration fields.
type Field uint8

const (
	FieldA Field = iota
	FieldB
)

// String returns the lowercase field name.
func (f Field) String() string {
	switch f {
	case FieldA:
		return "a"
	case FieldB:
		return "b"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}

// ParseField converts "a" or "b" (case-insensitive) into a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return FieldA, nil
	case "b":
		return FieldB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Coupling controls which A values the B pass sees during a step.
type Coupling uint8

const (
	// CouplingSequential lets the B pass read A after the A pass was committed.
	CouplingSequential Coupling = iota
	// CouplingSnapshot lets the B pass read the pre-step A values.
	CouplingSnapshot
)

// String returns the config name of the coupling.
func (c Coupling) String() string {
	switch c {
	case CouplingSequential:
		return "sequential"
	case CouplingSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("coupling(%d)", uint8(c))
	}
}

// ParseCoupling converts a config name into a Coupling. Empty selects the default.
func ParseCoupling(s string) (Coupling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return CouplingSequential, nil
	case "snapshot":
		return CouplingSnapshot, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCoupling, s)
}

// Params holds the Gray-Scott model rates.
type Params struct {
	DiffusionA float64
	DiffusionB float64
	Feed       float64
	Kill       float64
}

// Option configures a Grid at construction.
type Option func(*Grid)

// WithCoupling selects how the B pass reads field A.
func WithCoupling(c Coupling) Option {
	return func(g *Grid) { g.coupling = c }
}

// Grid holds two row-major concentration fields on a torus.
// Width and height must be positive.
type Grid struct {
	w, h   int
	a, b   []float64
	params Params

	coupling Coupling

	// Scratch buffers for the step passes
	tmp  []float64
	tmpA []float64
}

// New allocates a zeroed grid with the given dimensions and rates.
func New(width, height int, p Params, opts ...Option) *Grid {
	n := width * height
	g := &Grid{
		w:      width,
		h:      height,
		a:      make([]float64, n),
		b:      make([]float64, n),
		params: p,
		tmp:    make([]float64, n),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.coupling == CouplingSnapshot {
		g.tmpA = make([]float64, n)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Params returns the model rates.
func (g *Grid) Params() Params { return g.params }

// Coupling returns the configured coupling mode.
func (g *Grid) Coupling() Coupling { return g.coupling }

// Cells exposes the backing slice of a field. Callers must not hold it across
// a Step if they expect stable values.
func (g *Grid) Cells(f Field) []float64 {
	if f == FieldB {
		return g.b
	}
	return g.a
}

// Index maps (x, y) to a linear offset, wrapping at most once per axis.
// Coordinates must lie within one width/height of the grid.
func (g *Grid) Index(x, y int) int {
	if x < 0 {
		x += g.w
	} else if x >= g.w {
		x -= g.w
	}
	if y < 0 {
		y += g.h
	} else if y >= g.h {
		y -= g.h
	}
	return y*g.w + x
}

// Wrap applies full toroidal wrapping to arbitrary coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.w + g.w) % g.w
	y = (y%g.h + g.h) % g.h
	return x, y
}

// ValueAt reads a field at any integer coordinate.
func (g *Grid) ValueAt(f Field, x, y int) float64 {
	x, y = g.Wrap(x, y)
	return g.Cells(f)[y*g.w+x]
}
