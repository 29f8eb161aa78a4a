// Package renderer draws concentration fields with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grayscott/camera"
)

// FieldRenderer uploads one concentration field to a texture and draws it
// through a camera.
type FieldRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	channel Channel
	gain    float64

	screenW, screenH float32
	initialized      bool
}

// NewFieldRenderer creates a field renderer for the given window size.
func NewFieldRenderer(screenW, screenH int32, ch Channel, gain float64) *FieldRenderer {
	return &FieldRenderer{
		channel: ch,
		gain:    gain,
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the texture (must be called after raylib window is created).
func (r *FieldRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates screen dimensions.
func (r *FieldRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update converts field values to pixels and uploads them to the GPU texture.
func (r *FieldRenderer) Update(cells []float64, w, h int) {
	if !r.initialized {
		r.Init(w, h)
	}
	if len(cells) != r.texW*r.texH {
		return
	}
	FillRGBA(r.pixels, cells, r.channel, r.gain)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the region of the field visible through cam over the whole
// window. Regions past the grid edge wrap through the repeating texture.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x, y, w, h := cam.SourceRect()
	srcRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
