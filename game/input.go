package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grayscott/reaction"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyQ) {
		g.quit = true
		return
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) && g.paused {
		g.stepOnce = true
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.changeSpeed(-1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.changeSpeed(1)
	}

	if rl.IsKeyPressed(rl.KeyD) {
		g.grid.Dump(slog.Default(), g.displayField)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.toggleDisplayField()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reseed()
	}

	// Camera controls
	g.handleCameraInput()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Fixed screen-space pan speed; Pan converts to cells
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// changeSpeed adjusts steps per update within [MinStepsPerUpdate, MaxStepsPerUpdate].
func (g *Game) changeSpeed(delta int) {
	g.stepsPerUpdate = min(max(g.stepsPerUpdate+delta, MinStepsPerUpdate), MaxStepsPerUpdate)
}

// toggleDisplayField switches the rendered field between A and B.
func (g *Game) toggleDisplayField() {
	if g.displayField == reaction.FieldA {
		g.displayField = reaction.FieldB
	} else {
		g.displayField = reaction.FieldA
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(w, h)
	}
	if g.fieldRenderer != nil {
		g.fieldRenderer.Resize(w, h)
	}
	if g.perfPanel != nil {
		g.perfPanel.SetPosition(int32(w)-230, 10)
	}
}
