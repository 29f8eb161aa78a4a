package reaction

// SeedRect sets every cell in [x, x+sizeX) x [y, y+sizeY) of field f to value.
// The rectangle wraps around the grid edges. Non-positive sizes write nothing;
// sizes beyond the grid dimensions cover each cell once.
func (g *Grid) SeedRect(f Field, x, y, sizeX, sizeY int, value float64) {
	if sizeX <= 0 || sizeY <= 0 {
		return
	}
	sizeX = min(sizeX, g.w)
	sizeY = min(sizeY, g.h)
	x, y = g.Wrap(x, y)

	dst := g.Cells(f)
	for oy := 0; oy < sizeY; oy++ {
		for ox := 0; ox < sizeX; ox++ {
			dst[g.Index(x+ox, y+oy)] = value
		}
	}
}

// SeedDisk sets cells (x+dx, y+dy) of field f to value for dx, dy in
// [-radius, radius) with dx*dx+dy*dy <= radius*radius. The range is half-open,
// so the disk reaches one cell further on the negative side.
func (g *Grid) SeedDisk(f Field, x, y, radius int, value float64) {
	if radius <= 0 {
		return
	}
	x, y = g.Wrap(x, y)
	r2 := radius * radius
	// Index only corrects a single wrap
	single := radius <= g.w && radius <= g.h

	dst := g.Cells(f)
	for dy := -radius; dy < radius; dy++ {
		for dx := -radius; dx < radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			if single {
				dst[g.Index(x+dx, y+dy)] = value
				continue
			}
			nx, ny := g.Wrap(x+dx, y+dy)
			dst[ny*g.w+nx] = value
		}
	}
}

// SeedMask sets every cell of field f for which keep reports true to value.
func (g *Grid) SeedMask(f Field, value float64, keep func(x, y int) bool) {
	dst := g.Cells(f)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if keep(x, y) {
				dst[y*g.w+x] = value
			}
		}
	}
}
