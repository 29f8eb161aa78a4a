package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grayscott/reaction"
	"github.com/pthm-cable/grayscott/ui"
)

const controlsText = "Space pause | N step | R reseed | F field | D dump | , . speed | arrows/wheel view | Home reset | P perf | Q quit"

// Draw renders the displayed field and the HUD.
func (g *Game) Draw() {
	if g.headless {
		return
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.fieldRenderer.Update(g.grid.Cells(g.displayField), g.grid.Width(), g.grid.Height())
	g.fieldRenderer.Draw(g.camera)

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD, the optional perf panel and the controls bar.
func (g *Game) drawUI() {
	sw, sh := int32(g.screenWidth), int32(g.screenHeight)
	params := g.grid.Params()

	mouse := rl.GetMousePosition()
	cx, cy := g.camera.ScreenToCell(mouse.X, mouse.Y)

	g.hud.Draw(ui.HUDData{
		Title:          "Gray-Scott",
		Field:          g.displayField.String(),
		Tick:           g.tick,
		SimTime:        g.collector.SimTime(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Feed:           params.Feed,
		Kill:           params.Kill,
		Stats:          g.lastStats.Field(g.displayField),
		ScreenWidth:    sw,
		ScreenHeight:   sh,
		Cursor: ui.CursorProbe{
			X: cx,
			Y: cy,
			A: g.grid.ValueAt(reaction.FieldA, cx, cy),
			B: g.grid.ValueAt(reaction.FieldB, cx, cy),
		},
	})

	if g.showPerf {
		g.perfPanel.Draw(ui.PerfPanelData{Stats: g.perfCollector.Stats()})
	}

	g.hud.DrawControls(sw, sh, controlsText)
}
