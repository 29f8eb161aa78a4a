package reaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

var testParams = Params{DiffusionA: 1.0, DiffusionB: 0.5, Feed: 0.055, Kill: 0.062}

func fill(g *Grid, f Field, v float64) {
	g.SeedRect(f, 0, 0, g.Width(), g.Height(), v)
}

func TestIndexWrap(t *testing.T) {
	g := New(7, 5, testParams)

	tests := []struct {
		name   string
		x, y   int
		wx, wy int
	}{
		{"origin", 0, 0, 0, 0},
		{"left edge", -1, 0, 6, 0},
		{"right edge", 7, 0, 0, 0},
		{"top edge", 0, -1, 0, 4},
		{"bottom edge", 0, 5, 0, 0},
		{"corner", -1, -1, 6, 4},
		{"far corner", 7, 5, 0, 0},
		{"interior", 3, 2, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Index(tt.x, tt.y)
			want := tt.wy*7 + tt.wx
			if got != want {
				t.Errorf("Index(%d, %d) = %d, want %d", tt.x, tt.y, got, want)
			}
		})
	}
}

func TestIndexMatchesWrapWithinOneWrap(t *testing.T) {
	g := New(6, 4, testParams)
	for y := -4; y < 8; y++ {
		for x := -6; x < 12; x++ {
			wx, wy := g.Wrap(x, y)
			if got, want := g.Index(x, y), wy*6+wx; got != want {
				t.Fatalf("Index(%d, %d) = %d, Wrap gives %d", x, y, got, want)
			}
		}
	}
}

func TestValueAtArbitraryCoordinates(t *testing.T) {
	g := New(5, 5, testParams)
	g.Cells(FieldB)[2*5+3] = 0.75

	coords := [][2]int{{3, 2}, {-2, -3}, {8, 7}, {53, 102}, {-47, -98}}
	for _, c := range coords {
		if v := g.ValueAt(FieldB, c[0], c[1]); v != 0.75 {
			t.Errorf("ValueAt(B, %d, %d) = %v, want 0.75", c[0], c[1], v)
		}
		if v := g.ValueAt(FieldA, c[0], c[1]); v != 0 {
			t.Errorf("ValueAt(A, %d, %d) = %v, want 0", c[0], c[1], v)
		}
	}
}

func TestLaplacianUniformFieldIsZero(t *testing.T) {
	values := []float64{0, 1, 0.5, 0.3, 7, -3, 100, 123.456}
	for _, v := range values {
		g := New(8, 6, testParams)
		fill(g, FieldA, v)
		fill(g, FieldB, v)
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				if lap := g.Laplacian(FieldA, x, y); lap != 0 {
					t.Fatalf("v=%v: Laplacian(A, %d, %d) = %v, want 0", v, x, y, lap)
				}
				if lap := g.Laplacian(FieldB, x, y); lap != 0 {
					t.Fatalf("v=%v: Laplacian(B, %d, %d) = %v, want 0", v, x, y, lap)
				}
			}
		}
	}
}

func TestLaplacianWeights(t *testing.T) {
	g := New(5, 5, testParams)
	g.Cells(FieldA)[0] = 1

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		{"center", 0, 0, -1.0},
		{"right neighbour", 1, 0, 0.2},
		{"wrapped left neighbour", 4, 0, 0.2},
		{"wrapped top neighbour", 0, 4, 0.2},
		{"diagonal", 1, 1, 0.05},
		{"wrapped diagonal", 4, 4, 0.05},
		{"out of reach", 2, 2, 0},
		{"coordinate wraps", 5, 0, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Laplacian(FieldA, tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Laplacian(A, %d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	var sum float64
	for _, tap := range laplacianStencil {
		sum += tap.w
	}
	if math.Abs(sum) > 1e-15 {
		t.Errorf("stencil weights sum to %v, want 0", sum)
	}
}

func TestLaplacianMatchesRowOrderSum(t *testing.T) {
	g := New(16, 16, testParams)
	rng := rand.New(rand.NewPCG(7, 11))
	cells := g.Cells(FieldB)
	for i := range cells {
		cells[i] = rng.Float64()*2 - 0.5
	}

	for y := range g.Height() {
		for x := range g.Width() {
			var want float64
			for _, tap := range laplacianStencil {
				want += tap.w * cells[g.Index(x+tap.dx, y+tap.dy)]
			}
			if got := g.Laplacian(FieldB, x, y); math.Abs(got-want) > 1e-12 {
				t.Fatalf("Laplacian(B, %d, %d) = %v, row-order sum %v", x, y, got, want)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{150, 100},
		{-150, -100},
		{50, 50},
		{100, 100},
		{-100, -100},
		{0, 0},
		{math.Inf(1), 100},
		{math.Inf(-1), -100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSeedRect(t *testing.T) {
	tests := []struct {
		name         string
		x, y, sx, sy int
	}{
		{"interior", 2, 3, 3, 2},
		{"wraps right and bottom", 8, 5, 4, 3},
		{"negative anchor", -2, -1, 3, 3},
		{"single cell", 0, 0, 1, 1},
		{"whole grid", 0, 0, 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(10, 7, testParams)
			fill(g, FieldA, 0.25)
			g.SeedRect(FieldA, tt.x, tt.y, tt.sx, tt.sy, 0.9)

			inside := make(map[int]bool)
			for oy := 0; oy < tt.sy; oy++ {
				for ox := 0; ox < tt.sx; ox++ {
					x, y := g.Wrap(tt.x+ox, tt.y+oy)
					inside[y*10+x] = true
				}
			}
			for i, v := range g.Cells(FieldA) {
				want := 0.25
				if inside[i] {
					want = 0.9
				}
				if v != want {
					t.Fatalf("cell %d = %v, want %v", i, v, want)
				}
			}
			for i, v := range g.Cells(FieldB) {
				if v != 0 {
					t.Fatalf("field B cell %d = %v, want untouched 0", i, v)
				}
			}
		})
	}
}

func TestSeedRectDegenerateSizes(t *testing.T) {
	g := New(4, 4, testParams)
	g.SeedRect(FieldA, 1, 1, 0, 3, 5)
	g.SeedRect(FieldA, 1, 1, 3, -1, 5)
	g.SeedRect(FieldA, 1, 1, -2, -2, 5)
	for i, v := range g.Cells(FieldA) {
		if v != 0 {
			t.Fatalf("cell %d = %v after degenerate seed, want 0", i, v)
		}
	}

	g.SeedRect(FieldB, 3, 3, 50, 50, 2)
	for i, v := range g.Cells(FieldB) {
		if v != 2 {
			t.Fatalf("cell %d = %v after oversized seed, want 2", i, v)
		}
	}
}

// offset returns the signed offset from c to p on a ring of size n, in [-n/2, n/2).
func offset(p, c, n int) int {
	d := ((p-c)%n + n) % n
	if d >= n/2 {
		d -= n
	}
	return d
}

func TestSeedDiskRadiusLaw(t *testing.T) {
	const w, h = 20, 20
	centers := [][2]int{{10, 10}, {0, 0}, {19, 1}, {-3, 25}}

	for _, c := range centers {
		for r := 1; r <= 5; r++ {
			g := New(w, h, testParams)
			g.SeedDisk(FieldB, c[0], c[1], r, 1.5)

			cx, cy := g.Wrap(c[0], c[1])
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					dx, dy := offset(x, cx, w), offset(y, cy, h)
					in := dx >= -r && dx < r && dy >= -r && dy < r && dx*dx+dy*dy <= r*r
					want := 0.0
					if in {
						want = 1.5
					}
					if got := g.ValueAt(FieldB, x, y); got != want {
						t.Fatalf("center %v r=%d: cell (%d,%d) offset (%d,%d) = %v, want %v",
							c, r, x, y, dx, dy, got, want)
					}
				}
			}
		}
	}
}

// The half-open offset range reaches one cell further on the negative side.
// This asymmetry is kept on purpose.
func TestSeedDiskHalfOpenRange(t *testing.T) {
	g := New(12, 12, testParams)
	g.SeedDisk(FieldB, 6, 6, 2, 1)

	checks := []struct {
		x, y int
		want float64
	}{
		{4, 6, 1}, // dx = -2
		{8, 6, 0}, // dx = +2 excluded
		{6, 4, 1}, // dy = -2
		{6, 8, 0}, // dy = +2 excluded
		{7, 7, 1},
		{5, 5, 1},
		{4, 4, 0}, // dx*dx+dy*dy = 8 > 4
	}
	for _, c := range checks {
		if got := g.ValueAt(FieldB, c.x, c.y); got != c.want {
			t.Errorf("cell (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestSeedDiskDegenerateRadius(t *testing.T) {
	g := New(6, 6, testParams)
	g.SeedDisk(FieldA, 3, 3, 0, 1)
	g.SeedDisk(FieldA, 3, 3, -4, 1)
	for i, v := range g.Cells(FieldA) {
		if v != 0 {
			t.Fatalf("cell %d = %v, want 0", i, v)
		}
	}

	// Radius larger than the grid wraps repeatedly and covers everything.
	g.SeedDisk(FieldA, 1, 1, 20, 3)
	for i, v := range g.Cells(FieldA) {
		if v != 3 {
			t.Fatalf("cell %d = %v after huge disk, want 3", i, v)
		}
	}
}

func TestSeedBypassesClamp(t *testing.T) {
	g := New(4, 4, testParams)
	g.SeedRect(FieldA, 0, 0, 1, 1, 500)
	g.SeedDisk(FieldB, 2, 2, 1, -500)
	if v := g.ValueAt(FieldA, 0, 0); v != 500 {
		t.Errorf("seeded A = %v, want 500", v)
	}
	if v := g.ValueAt(FieldB, 2, 2); v != -500 {
		t.Errorf("seeded B = %v, want -500", v)
	}
}

func TestSeedMask(t *testing.T) {
	g := New(5, 4, testParams)
	g.SeedMask(FieldB, 0.3, func(x, y int) bool { return (x+y)%2 == 0 })

	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := 0.0
			if (x+y)%2 == 0 {
				want = 0.3
			}
			if v := g.ValueAt(FieldB, x, y); v != want {
				t.Errorf("B(%d,%d) = %v, want %v", x, y, v, want)
			}
		}
	}
	for i, v := range g.Cells(FieldA) {
		if v != 0 {
			t.Fatalf("A[%d] = %v, mask leaked into other field", i, v)
		}
	}
}

func seededGrid(opts ...Option) *Grid {
	g := New(32, 24, testParams, opts...)
	fill(g, FieldA, 1)
	g.SeedDisk(FieldB, 10, 12, 4, 1)
	g.SeedDisk(FieldB, 30, 2, 3, 0.7)
	g.SeedRect(FieldB, 20, 20, 5, 6, 0.4)
	return g
}

func TestStepDeterminism(t *testing.T) {
	for _, c := range []Coupling{CouplingSequential, CouplingSnapshot} {
		t.Run(c.String(), func(t *testing.T) {
			g1 := seededGrid(WithCoupling(c))
			g2 := seededGrid(WithCoupling(c))
			for i := 0; i < 25; i++ {
				g1.Step(1.0)
				g2.Step(1.0)
			}
			for _, f := range []Field{FieldA, FieldB} {
				c1, c2 := g1.Cells(f), g2.Cells(f)
				for i := range c1 {
					if math.Float64bits(c1[i]) != math.Float64bits(c2[i]) {
						t.Fatalf("field %s cell %d differs: %v vs %v", f, i, c1[i], c2[i])
					}
				}
			}
		})
	}
}

func TestStepUniformSteadyState(t *testing.T) {
	g := New(9, 9, testParams)
	fill(g, FieldA, 1)
	for i := 0; i < 10; i++ {
		g.Step(1.0)
	}
	for i := range g.Cells(FieldA) {
		if a := g.Cells(FieldA)[i]; a != 1 {
			t.Fatalf("A[%d] = %v, want 1", i, a)
		}
		if b := g.Cells(FieldB)[i]; b != 0 {
			t.Fatalf("B[%d] = %v, want 0", i, b)
		}
	}
}

// endToEndGrid builds the 10x10 scenario: A=1 everywhere, B=1 in a 2x2 block at (4,4).
func endToEndGrid(c Coupling) *Grid {
	g := New(10, 10, testParams, WithCoupling(c))
	fill(g, FieldA, 1)
	g.SeedRect(FieldB, 4, 4, 2, 2, 1)
	return g
}

// expectedLapB is the stencil evaluated by hand at (4,4): the neighbours at
// (5,4), (4,5) and (5,5) share the centre value and contribute nothing.
func expectedLapB() float64 {
	c := 1.0
	zero := 0.0
	var lap float64
	lap += weightDiagonal * (zero - c) // (3,3)
	lap += weightAdjacent * (zero - c) // (4,3)
	lap += weightDiagonal * (zero - c) // (5,3)
	lap += weightAdjacent * (zero - c) // (3,4)
	lap += weightDiagonal * (zero - c) // (3,5)
	return lap
}

func TestStepEndToEndSequential(t *testing.T) {
	g := endToEndGrid(CouplingSequential)
	dt := 1.0
	g.Step(dt)

	// A: uniform neighbourhood, A*B^2 = 1, f*(1-A) = 0.
	wantA := Clamp(1 + dt*(testParams.DiffusionA*0-1+testParams.Feed*0))
	if got := g.ValueAt(FieldA, 4, 4); got != wantA || got != 0 {
		t.Errorf("A(4,4) = %v, want %v", got, wantA)
	}

	// B sees the committed A' = 0, so the reaction term vanishes.
	p := testParams
	b := 1.0
	wantB := Clamp(b + dt*(p.DiffusionB*expectedLapB()+0-(p.Kill+p.Feed)*b))
	if got := g.ValueAt(FieldB, 4, 4); math.Abs(got-wantB) > 1e-12 {
		t.Errorf("B(4,4) = %v, want %v", got, wantB)
	}
	if math.Abs(wantB-0.608) > 1e-12 {
		t.Errorf("derived B(4,4) = %v, want about 0.608", wantB)
	}
}

func TestStepEndToEndSnapshot(t *testing.T) {
	g := endToEndGrid(CouplingSnapshot)
	dt := 1.0
	g.Step(dt)

	if got := g.ValueAt(FieldA, 4, 4); got != 0 {
		t.Errorf("A(4,4) = %v, want 0", got)
	}

	// B sees the pre-step A = 1, so A*B^2 = 1.
	p := testParams
	b := 1.0
	abb := 1.0 * b * b
	wantB := Clamp(b + dt*(p.DiffusionB*expectedLapB()+abb-(p.Kill+p.Feed)*b))
	if got := g.ValueAt(FieldB, 4, 4); math.Abs(got-wantB) > 1e-12 {
		t.Errorf("B(4,4) = %v, want %v", got, wantB)
	}
	if math.Abs(wantB-1.608) > 1e-12 {
		t.Errorf("derived B(4,4) = %v, want about 1.608", wantB)
	}
}

func TestStepDoesNotMutateMidSweep(t *testing.T) {
	// With in-place updates the row-major sweep would see already-updated
	// neighbours and the result would lose its mirror symmetry.
	g := New(11, 11, Params{DiffusionA: 1, DiffusionB: 0.5})
	g.SeedRect(FieldA, 5, 5, 1, 1, 1)
	g.Step(0.5)

	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			v := g.ValueAt(FieldA, x, y)
			if m := g.ValueAt(FieldA, 10-x, 10-y); v != m {
				t.Fatalf("A(%d,%d) = %v but mirror A(%d,%d) = %v", x, y, v, 10-x, 10-y, m)
			}
		}
	}
}

func TestStepStaysWithinClampBounds(t *testing.T) {
	g := New(8, 8, Params{DiffusionA: 1, DiffusionB: 0.5, Feed: 0.055, Kill: 0.062})
	fill(g, FieldA, 90)
	g.SeedRect(FieldB, 2, 2, 3, 3, 90)
	g.SeedRect(FieldA, 6, 6, 2, 2, -1000)

	for i := 0; i < 5; i++ {
		g.Step(1.0)
		for _, f := range []Field{FieldA, FieldB} {
			for j, v := range g.Cells(f) {
				if math.IsNaN(v) || v < ClampMin || v > ClampMax {
					t.Fatalf("step %d: field %s cell %d = %v outside bounds", i, f, j, v)
				}
			}
		}
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"a", FieldA, false},
		{"B", FieldB, false},
		{" b ", FieldB, false},
		{"c", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseField(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownField) {
				t.Errorf("ParseField(%q) error = %v, want ErrUnknownField", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseField(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseCoupling(t *testing.T) {
	if c, err := ParseCoupling(""); err != nil || c != CouplingSequential {
		t.Errorf("ParseCoupling(\"\") = %v, %v, want sequential", c, err)
	}
	if c, err := ParseCoupling("Snapshot"); err != nil || c != CouplingSnapshot {
		t.Errorf("ParseCoupling(\"Snapshot\") = %v, %v, want snapshot", c, err)
	}
	if _, err := ParseCoupling("parallel"); !errors.Is(err, ErrUnknownCoupling) {
		t.Errorf("ParseCoupling(\"parallel\") error = %v, want ErrUnknownCoupling", err)
	}
}

func TestDump(t *testing.T) {
	g := New(3, 2, testParams)
	g.SeedRect(FieldB, 1, 0, 1, 2, 0.5)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	g.Dump(logger, FieldB)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log records, want 3", len(lines))
	}

	var row struct {
		Field  string    `json:"field"`
		Y      int       `json:"y"`
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &row); err != nil {
		t.Fatalf("decoding row record: %v", err)
	}
	if row.Field != "b" || row.Y != 1 || len(row.Values) != 3 || row.Values[1] != 0.5 {
		t.Errorf("unexpected row record %+v", row)
	}

	var summary struct {
		Max float64 `json:"max"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &summary); err != nil {
		t.Fatalf("decoding summary record: %v", err)
	}
	if summary.Max != 0.5 {
		t.Errorf("summary max = %v, want 0.5", summary.Max)
	}
}
