package renderer

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Channel selects which color components receive a concentration value.
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelGray
)

// ParseChannel converts a config name into a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "red":
		return ChannelRed, nil
	case "green":
		return ChannelGreen, nil
	case "blue":
		return ChannelBlue, nil
	case "gray", "grey":
		return ChannelGray, nil
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

// Intensity scales v by gain and truncates to a byte, saturating at 0 and 255.
// NaN maps to 0.
func Intensity(v, gain float64) uint8 {
	x := v * gain
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

// FillRGBA converts field values into opaque pixels in dst. dst must be at
// least as long as cells.
func FillRGBA(dst []color.RGBA, cells []float64, ch Channel, gain float64) {
	for i, v := range cells {
		c := Intensity(v, gain)
		px := color.RGBA{A: 255}
		switch ch {
		case ChannelRed:
			px.R = c
		case ChannelGreen:
			px.G = c
		case ChannelBlue:
			px.B = c
		default:
			px.R, px.G, px.B = c, c, c
		}
		dst[i] = px
	}
}
