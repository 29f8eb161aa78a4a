package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	simTime         float64

	// Event counters for current window
	steps   int
	reseeds int
}

// NewCollector creates a new stats collector.
// windowTicks: number of ticks per window
// dt: simulation time per step
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordStep records one integrator step.
func (c *Collector) RecordStep() {
	c.steps++
	c.simTime += c.dt
}

// RecordReseed records a grid rebuild.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the current field values and resets
// counters for the next window. The slices are only read.
func (c *Collector) Flush(currentTick int32, a, b []float64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTime:         c.simTime,
		Steps:           c.steps,
		Reseeds:         c.reseeds,
	}
	stats.setA(ComputeFieldStats(a))
	stats.setB(ComputeFieldStats(b))

	// Reset for next window
	c.windowStartTick = currentTick
	c.steps = 0
	c.reseeds = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// SimTime returns the accumulated simulation time.
func (c *Collector) SimTime() float64 {
	return c.simTime
}
