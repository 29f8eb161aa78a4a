// Package game drives the reaction-diffusion grid in graphical and headless modes.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/grayscott/camera"
	"github.com/pthm-cable/grayscott/config"
	"github.com/pthm-cable/grayscott/reaction"
	"github.com/pthm-cable/grayscott/renderer"
	"github.com/pthm-cable/grayscott/scenario"
	"github.com/pthm-cable/grayscott/telemetry"
	"github.com/pthm-cable/grayscott/ui"
)

// Steps-per-update bounds for the comma/period keys.
const (
	MinStepsPerUpdate = 1
	MaxStepsPerUpdate = 10
)

// Options configures game initialization.
type Options struct {
	LogStats       bool   // Output stats via slog
	OutputDir      string // Directory for CSV logs and config snapshot (empty = disabled)
	Headless       bool   // Skip all raylib resources
	StepsPerUpdate int    // Steps per Update call (0 = use config)
}

// Game holds the complete simulation and presentation state.
type Game struct {
	cfg          *config.Config
	grid         *reaction.Grid
	displayField reaction.Field

	// Rendering (nil in headless mode)
	camera        *camera.Camera
	fieldRenderer *renderer.FieldRenderer
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	lastStats     telemetry.WindowStats
	logStats      bool

	// State
	tick           int32
	paused         bool
	stepOnce       bool
	quit           bool
	showPerf       bool
	headless       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions builds the seeded grid and, unless headless, the
// renderer. Graphical mode must be called after the raylib window exists.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	grid, err := scenario.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("building scenario: %w", err)
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate <= 0 {
		stepsPerUpdate = cfg.Sim.StepsPerUpdate
	}
	stepsPerUpdate = min(max(stepsPerUpdate, MinStepsPerUpdate), MaxStepsPerUpdate)

	g := &Game{
		cfg:            cfg,
		grid:           grid,
		displayField:   cfg.Derived.DisplayField,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Sim.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, grid.Width()*grid.Height()),
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	// Initial stats so the HUD has something to show before the first window
	g.lastStats = g.collector.Flush(0, grid.Cells(reaction.FieldA), grid.Cells(reaction.FieldB))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	if !opts.Headless {
		ch, err := renderer.ParseChannel(cfg.Display.Channel)
		if err != nil {
			om.Close()
			return nil, err
		}
		g.camera = camera.New(g.screenWidth, g.screenHeight, grid.Width(), grid.Height())
		g.fieldRenderer = renderer.NewFieldRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height), ch, cfg.Display.Gain)
		g.fieldRenderer.Init(grid.Width(), grid.Height())
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(cfg.Screen.Width)-230, 10)
	}

	slog.Info("game initialized",
		"grid_w", grid.Width(),
		"grid_h", grid.Height(),
		"coupling", grid.Coupling().String(),
		"display_field", g.displayField.String(),
		"steps_per_update", g.stepsPerUpdate,
		"stats_window", g.collector.WindowDurationTicks(),
		"headless", g.headless,
		"output_dir", om.Dir(),
	)

	return g, nil
}

// Update handles input then runs the configured number of steps.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()
	g.perfCollector.EndPhase()
	g.advance()
	g.perfCollector.EndTick()
	g.perfCollector.RecordFrame()
}

// UpdateHeadless runs the configured number of steps without input or graphics.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	g.advance()
	g.perfCollector.EndTick()
}

// advance runs stepsPerUpdate steps, or a single one when paused with a
// pending single-step request.
func (g *Game) advance() {
	steps := g.stepsPerUpdate
	if g.paused {
		if !g.stepOnce {
			return
		}
		g.stepOnce = false
		steps = 1
	}
	for range steps {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.grid.Step(g.cfg.Sim.DT)
	g.perfCollector.EndPhase()
	g.perfCollector.CountStep()
	g.collector.RecordStep()
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndPhase()
}

// reseed rebuilds the grid from config. The tick counter keeps running.
// Only the rebuild is timed as PhaseSeed; the caller's phase resumes after.
func (g *Game) reseed() {
	g.perfCollector.StartPhase(telemetry.PhaseSeed)
	defer g.perfCollector.EndPhase()
	grid, err := scenario.Build(g.cfg)
	if err != nil {
		slog.Error("failed to reseed", "error", err)
		return
	}
	g.grid = grid
	g.perfCollector.SetCells(grid.Width() * grid.Height())
	g.collector.RecordReseed()
	slog.Info("reseeded", "tick", g.tick)
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if g.fieldRenderer != nil {
		g.fieldRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of steps taken so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Grid returns the current grid. Reseeding replaces it.
func (g *Game) Grid() *reaction.Grid {
	return g.grid
}

// ShouldQuit reports whether a quit key was pressed.
func (g *Game) ShouldQuit() bool {
	return g.quit
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
