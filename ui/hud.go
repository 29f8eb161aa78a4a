// Package ui renders the heads-up display over the field view.
package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grayscott/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Field          string
	Tick           int32
	SimTime        float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Feed, Kill     float64
	Stats          telemetry.FieldStats
	Cursor         CursorProbe
	ScreenWidth    int32
	ScreenHeight   int32
}

// CursorProbe is the cell under the mouse and its concentrations.
type CursorProbe struct {
	X, Y int
	A, B float64
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | t=%.0f | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.StepsPerUpdate, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("f=%.4f k=%.4f | %s min %.3f max %.3f mean %.3f",
			data.Feed, data.Kill, data.Field, data.Stats.Min, data.Stats.Max, data.Stats.Mean),
		10, 55, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("cell (%d, %d) a=%.4f b=%.4f", data.Cursor.X, data.Cursor.Y, data.Cursor.A, data.Cursor.B),
		10, 75, 16, rl.LightGray,
	)

	if data.Paused {
		const label = "PAUSED"
		w := rl.MeasureText(label, 24)
		rl.DrawText(label, (data.ScreenWidth-w)/2, data.ScreenHeight/2-12, 24, rl.Yellow)
	}
}

// DrawControls renders the control legend in a status bar at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	bounds := rl.Rectangle{X: 0, Y: float32(screenHeight - 24), Width: float32(screenWidth), Height: 24}
	gui.StatusBar(bounds, controls)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats telemetry.PerfStats
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s", data.Stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(
		fmt.Sprintf("%.1f steps/tick | %.1f ns/cell", data.Stats.StepsPerTick, data.Stats.NsPerCellStep),
		x, y, 12, rl.LightGray,
	)
	y += 16

	for _, ph := range data.Stats.Phases {
		color := rl.LightGray
		if ph.Pct > 80 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph.Phase, ph.Avg.Round(time.Microsecond), ph.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
