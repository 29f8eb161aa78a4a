package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a timed section of one host tick.
type Phase uint8

const (
	PhaseInput Phase = iota
	PhaseStep
	PhaseSeed
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"input", "step", "seed", "telemetry"}

func (ph Phase) String() string {
	if ph >= numPhases {
		return "unknown"
	}
	return phaseNames[ph]
}

// tickSample is the timing of one host tick.
type tickSample struct {
	duration time.Duration
	phases   [numPhases]time.Duration
	steps    int
}

// PerfCollector times host ticks over a rolling window and relates the time
// spent in PhaseStep to the number of grid cells updated.
//
// Phases nest: StartPhase suspends the running phase and EndPhase resumes it,
// so time is only ever charged to the innermost phase.
type PerfCollector struct {
	windowSize  int
	cells       int
	samples     []tickSample
	writeIndex  int
	sampleCount int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	open       []Phase

	lastFrameTime time.Time
	frameDuration time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks for
// a grid of the given cell count.
func NewPerfCollector(windowSize, cells int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		cells:      max(cells, 0),
		samples:    make([]tickSample, windowSize),
		open:       make([]Phase, 0, int(numPhases)),
		now:        time.Now,
	}
}

// SetCells changes the cell count used for throughput. Samples already in
// the window keep being reported against the new count.
func (p *PerfCollector) SetCells(cells int) {
	p.cells = max(cells, 0)
}

// StartTick begins timing a new host tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickSample{}
	p.open = p.open[:0]
}

// charge bills the time since the last boundary to the innermost open phase.
func (p *PerfCollector) charge(now time.Time) {
	if n := len(p.open); n > 0 {
		p.cur.phases[p.open[n-1]] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
}

// StartPhase suspends the running phase, if any, and starts ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	p.charge(p.now())
	p.open = append(p.open, ph)
}

// EndPhase stops the innermost phase and resumes the one it interrupted.
func (p *PerfCollector) EndPhase() {
	if len(p.open) == 0 {
		return
	}
	p.charge(p.now())
	p.open = p.open[:len(p.open)-1]
}

// CountStep records one completed grid step in the current tick.
func (p *PerfCollector) CountStep() {
	p.cur.steps++
}

// EndTick closes any phases still open and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.charge(now)
	p.open = p.open[:0]

	p.cur.duration = now.Sub(p.tickStart)
	p.samples[p.writeIndex] = p.cur
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.cur = tickSample{}
}

// RecordFrame records the time since the previous frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PhaseStats is the average cost of one phase per tick.
type PhaseStats struct {
	Phase Phase
	Avg   time.Duration
	Pct   float64 // share of the average tick
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Per-phase breakdown in Phase order.
	Phases []PhaseStats

	// Step throughput, measured over PhaseStep time only.
	Cells          int
	StepsPerTick   float64
	StepsPerSecond float64
	CellsPerSecond float64
	NsPerCellStep  float64

	FrameDuration time.Duration
	FPS           float64
}

// Pct returns the share of the average tick spent in ph.
func (s PerfStats) Pct(ph Phase) float64 {
	for _, p := range s.Phases {
		if p.Phase == ph {
			return p.Pct
		}
	}
	return 0
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		Cells:         p.cells,
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	var steps int
	for i, s := range p.samples[:p.sampleCount] {
		total += s.duration
		if i == 0 || s.duration < stats.MinTickDuration {
			stats.MinTickDuration = s.duration
		}
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.duration)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
		steps += s.steps
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTickDuration = total / n
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}

	stats.Phases = make([]PhaseStats, numPhases)
	for ph := range numPhases {
		ps := PhaseStats{Phase: ph, Avg: phaseSum[ph] / n}
		if total > 0 {
			ps.Pct = float64(phaseSum[ph]) / float64(total) * 100
		}
		stats.Phases[ph] = ps
	}

	stats.StepsPerTick = float64(steps) / float64(p.sampleCount)
	if stepTime := phaseSum[PhaseStep]; steps > 0 && stepTime > 0 {
		stats.StepsPerSecond = float64(steps) / stepTime.Seconds()
		if p.cells > 0 {
			updates := float64(steps) * float64(p.cells)
			stats.CellsPerSecond = updates / stepTime.Seconds()
			stats.NsPerCellStep = float64(stepTime.Nanoseconds()) / updates
		}
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Int("cells", s.Cells),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
		slog.Float64("ns_per_cell_step", s.NsPerCellStep),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, p := range s.Phases {
		if p.Pct > 0.1 {
			attrs = append(attrs, slog.Float64(p.Phase.String()+"_pct", float64(int(p.Pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	Cells         int     `csv:"cells"`
	StepsPerTick  float64 `csv:"steps_per_tick"`
	CellsPerSec   float64 `csv:"cells_per_sec"`
	NsPerCellStep float64 `csv:"ns_per_cell_step"`
	InputPct      float64 `csv:"input_pct"`
	StepPct       float64 `csv:"step_pct"`
	SeedPct       float64 `csv:"seed_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		Cells:         s.Cells,
		StepsPerTick:  s.StepsPerTick,
		CellsPerSec:   s.CellsPerSecond,
		NsPerCellStep: s.NsPerCellStep,
		InputPct:      s.Pct(PhaseInput),
		StepPct:       s.Pct(PhaseStep),
		SeedPct:       s.Pct(PhaseSeed),
		TelemetryPct:  s.Pct(PhaseTelemetry),
	}
}
