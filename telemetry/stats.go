package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/grayscott/reaction"
)

// FieldStats summarizes one concentration field.
type FieldStats struct {
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	Sum  float64
	P10  float64
	P50  float64
	P90  float64

	// Cells pinned at a clamp bound
	Saturated int
}

// WindowStats holds aggregated statistics for a stats window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTime         float64 `csv:"sim_time"`

	// Events during window
	Steps   int `csv:"steps"`
	Reseeds int `csv:"reseeds"`

	// Field A at window end
	AMin       float64 `csv:"a_min"`
	AMax       float64 `csv:"a_max"`
	AMean      float64 `csv:"a_mean"`
	AStd       float64 `csv:"a_std"`
	ASum       float64 `csv:"a_sum"`
	AP10       float64 `csv:"a_p10"`
	AP50       float64 `csv:"a_p50"`
	AP90       float64 `csv:"a_p90"`
	ASaturated int     `csv:"a_saturated"`

	// Field B at window end
	BMin       float64 `csv:"b_min"`
	BMax       float64 `csv:"b_max"`
	BMean      float64 `csv:"b_mean"`
	BStd       float64 `csv:"b_std"`
	BSum       float64 `csv:"b_sum"`
	BP10       float64 `csv:"b_p10"`
	BP50       float64 `csv:"b_p50"`
	BP90       float64 `csv:"b_p90"`
	BSaturated int     `csv:"b_saturated"`
}

// Percentile returns the p-quantile of an ascending slice using gonum's
// LinInterp estimator (R type 4). p is clamped to [0, 1]; an empty slice
// yields 0.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeFieldStats calculates summary statistics over field values.
// Std is the unbiased sample standard deviation (0 for fewer than two values).
func ComputeFieldStats(values []float64) FieldStats {
	n := len(values)
	if n == 0 {
		return FieldStats{}
	}

	var fs FieldStats
	fs.Min = floats.Min(values)
	fs.Max = floats.Max(values)
	fs.Sum = floats.Sum(values)
	if n > 1 {
		fs.Mean, fs.Std = stat.MeanStdDev(values, nil)
	} else {
		fs.Mean = values[0]
	}

	for _, v := range values {
		if v <= reaction.ClampMin || v >= reaction.ClampMax {
			fs.Saturated++
		}
	}

	// Sort a copy for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	fs.P10 = Percentile(sorted, 0.10)
	fs.P50 = Percentile(sorted, 0.50)
	fs.P90 = Percentile(sorted, 0.90)

	return fs
}

func (s *WindowStats) setA(fs FieldStats) {
	s.AMin, s.AMax, s.AMean, s.AStd, s.ASum = fs.Min, fs.Max, fs.Mean, fs.Std, fs.Sum
	s.AP10, s.AP50, s.AP90 = fs.P10, fs.P50, fs.P90
	s.ASaturated = fs.Saturated
}

func (s *WindowStats) setB(fs FieldStats) {
	s.BMin, s.BMax, s.BMean, s.BStd, s.BSum = fs.Min, fs.Max, fs.Mean, fs.Std, fs.Sum
	s.BP10, s.BP50, s.BP90 = fs.P10, fs.P50, fs.P90
	s.BSaturated = fs.Saturated
}

// Field returns the summary recorded for f.
func (s WindowStats) Field(f reaction.Field) FieldStats {
	if f == reaction.FieldA {
		return FieldStats{
			Min: s.AMin, Max: s.AMax, Mean: s.AMean, Std: s.AStd, Sum: s.ASum,
			P10: s.AP10, P50: s.AP50, P90: s.AP90, Saturated: s.ASaturated,
		}
	}
	return FieldStats{
		Min: s.BMin, Max: s.BMax, Mean: s.BMean, Std: s.BStd, Sum: s.BSum,
		P10: s.BP10, P50: s.BP50, P90: s.BP90, Saturated: s.BSaturated,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (fs FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", fs.Min),
		slog.Float64("max", fs.Max),
		slog.Float64("mean", fs.Mean),
		slog.Float64("std", fs.Std),
		slog.Float64("p50", fs.P50),
		slog.Int("saturated", fs.Saturated),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("steps", s.Steps),
		slog.Int("reseeds", s.Reseeds),
		slog.Float64("a_mean", s.AMean),
		slog.Float64("a_std", s.AStd),
		slog.Float64("b_mean", s.BMean),
		slog.Float64("b_std", s.BStd),
		slog.Float64("b_max", s.BMax),
		slog.Int("saturated", s.ASaturated+s.BSaturated),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTime,
		"steps", s.Steps,
		"reseeds", s.Reseeds,
		"a_min", s.AMin,
		"a_max", s.AMax,
		"a_mean", s.AMean,
		"a_std", s.AStd,
		"a_p10", s.AP10,
		"a_p50", s.AP50,
		"a_p90", s.AP90,
		"a_saturated", s.ASaturated,
		"b_min", s.BMin,
		"b_max", s.BMax,
		"b_mean", s.BMean,
		"b_std", s.BStd,
		"b_p10", s.BP10,
		"b_p50", s.BP50,
		"b_p90", s.BP90,
		"b_saturated", s.BSaturated,
	)
}
