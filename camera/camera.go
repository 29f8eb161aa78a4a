// Package camera maps the screen onto a toroidal grid with pan and zoom.
package camera

import "math"

// maxZoomFactor bounds magnification relative to the fit zoom.
const maxZoomFactor = 16

// Camera is a view onto a wrapping grid, in cell units.
type Camera struct {
	// X, Y is the view centre in cell coordinates, always in [0, Grid).
	X, Y float32

	// Zoom is screen pixels per cell.
	Zoom float32

	ViewportW, ViewportH float32
	GridW, GridH         float32

	// MinZoom fills the viewport with the grid; MaxZoom is a fixed multiple of it.
	MinZoom, MaxZoom float32
}

// New creates a camera centred on the grid, zoomed so the grid covers the viewport.
func New(viewportW, viewportH float32, gridW, gridH int) *Camera {
	c := &Camera{
		GridW: float32(gridW),
		GridH: float32(gridH),
	}
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.fitZoom()
	c.Reset()
	return c
}

// fitZoom recomputes zoom constraints so the visible region never exceeds one grid period.
func (c *Camera) fitZoom() {
	c.MinZoom = max(c.ViewportW/c.GridW, c.ViewportH/c.GridH)
	c.MaxZoom = c.MinZoom * maxZoomFactor
}

// SourceRect returns the visible region in cell coordinates. X and Y may be
// negative or exceed the grid; a repeating texture wraps them.
func (c *Camera) SourceRect() (x, y, w, h float32) {
	w = c.ViewportW / c.Zoom
	h = c.ViewportH / c.Zoom
	return c.X - w/2, c.Y - h/2, w, h
}

// ScreenToCell returns the wrapped cell under a screen position.
func (c *Camera) ScreenToCell(sx, sy float32) (int, int) {
	wx := c.X + (sx-c.ViewportW/2)/c.Zoom
	wy := c.Y + (sy-c.ViewportH/2)/c.Zoom
	cx := int(math.Floor(float64(mod(wx, c.GridW))))
	cy := int(math.Floor(float64(mod(wy, c.GridH))))
	// Float rounding can land exactly on the period
	return cx % int(c.GridW), cy % int(c.GridH)
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels, wrapping at grid edges.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.GridW)
	c.Y = mod(c.Y+dy/c.Zoom, c.GridH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the camera and fits the grid to the viewport.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.Zoom = c.MinZoom
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
