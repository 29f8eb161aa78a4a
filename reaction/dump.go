package reaction

import (
	"log/slog"
	"slices"
)

// Dump logs the values of one field, one record per row, followed by a
// summary record. A nil logger uses slog.Default.
func (g *Grid) Dump(logger *slog.Logger, f Field) {
	if logger == nil {
		logger = slog.Default()
	}
	cells := g.Cells(f)
	for y := 0; y < g.h; y++ {
		row := cells[y*g.w : (y+1)*g.w]
		logger.Info("field row",
			"field", f.String(),
			"y", y,
			"values", slices.Clone(row),
		)
	}

	lo, hi := slices.Min(cells), slices.Max(cells)
	logger.Info("field dump",
		"field", f.String(),
		"width", g.w,
		"height", g.h,
		"min", lo,
		"max", hi,
	)
}
