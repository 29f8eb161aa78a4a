package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/grayscott/config"
	"github.com/pthm-cable/grayscott/reaction"
	"github.com/pthm-cable/grayscott/scenario"
	"github.com/pthm-cable/grayscott/telemetry"
)

// patternStd is the B standard deviation above which a run counts as patterned
// rather than decayed to a uniform state.
const patternStd = 1e-3

// point is one (feed, kill) pair in the sweep, with its row-major index.
type point struct {
	index int
	feed  float64
	kill  float64
}

// result is one sweep.csv row.
type result struct {
	Index      int     `csv:"-"`
	Feed       float64 `csv:"feed"`
	Kill       float64 `csv:"kill"`
	Ticks      int     `csv:"ticks"`
	BMin       float64 `csv:"b_min"`
	BMax       float64 `csv:"b_max"`
	BMean      float64 `csv:"b_mean"`
	BStd       float64 `csv:"b_std"`
	BP50       float64 `csv:"b_p50"`
	BSaturated int     `csv:"b_saturated"`
	Patterned  bool    `csv:"patterned"`
}

// span returns n evenly spaced values from lo to hi inclusive. n < 2 yields lo.
func span(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// grid returns the cartesian product of feeds and kills, feed-major.
func grid(feeds, kills []float64) []point {
	points := make([]point, 0, len(feeds)*len(kills))
	for _, f := range feeds {
		for _, k := range kills {
			points = append(points, point{index: len(points), feed: f, kill: k})
		}
	}
	return points
}

// runPoint builds the configured scenario with the point's rates, steps it
// ticks times and summarizes field B.
func runPoint(cfg *config.Config, p point, ticks int) (result, error) {
	params := cfg.Derived.Params
	params.Feed = p.feed
	params.Kill = p.kill

	g, err := scenario.BuildWithParams(cfg, params)
	if err != nil {
		return result{}, err
	}
	for range ticks {
		g.Step(cfg.Sim.DT)
	}

	fs := telemetry.ComputeFieldStats(g.Cells(reaction.FieldB))
	return result{
		Index:      p.index,
		Feed:       p.feed,
		Kill:       p.kill,
		Ticks:      ticks,
		BMin:       fs.Min,
		BMax:       fs.Max,
		BMean:      fs.Mean,
		BStd:       fs.Std,
		BP50:       fs.P50,
		BSaturated: fs.Saturated,
		Patterned:  fs.Std > patternStd,
	}, nil
}

// writeCSV writes rows to path, replacing any existing file. Close errors
// are returned.
func writeCSV(path string, rows []result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Join(fmt.Errorf("writing %s: %w", path, err), f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
