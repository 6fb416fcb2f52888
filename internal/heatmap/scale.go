package heatmap

import (
	"fmt"
	"image/color"
	"math"
)

// epsilon keeps the ratio finite when every cell has the same average.
const epsilon = 1e-4

// Scale is the min/max window the ratio is normalized against.
type Scale struct {
	Min float64
	Max float64
}

// NewScale spans the present cells. An empty heatmap gets 0..1.
func NewScale(h Heatmap) Scale {
	if len(h) == 0 {
		return Scale{Min: 0, Max: 1}
	}
	s := Scale{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, c := range h {
		s.Min = math.Min(s.Min, c.AvgEffective)
		s.Max = math.Max(s.Max, c.AvgEffective)
	}
	return s
}

// Ratio normalizes avg into [0, 1].
func (s Scale) Ratio(avg float64) float64 {
	r := (avg - s.Min) / (s.Max - s.Min + epsilon)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// NoDataColor fills cells without aggregates.
var NoDataColor = RGB{R: 0xee, G: 0xee, B: 0xee}

// ColorFor maps a ratio onto the green (fast) to red (slow) ramp.
func ColorFor(ratio float64) RGB {
	return RGB{
		R: uint8(math.Round(255 * ratio)),
		G: uint8(math.Round(200 * (1 - ratio))),
		B: 0,
	}
}

// CSS returns the color as an rgb() expression.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// NRGBA converts to an opaque image color.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Level is the discrete bucket used by the compact share grid.
type Level int

const (
	LevelNoData Level = iota
	LevelLow
	LevelMid
	LevelHigh
)

// LevelFor buckets a ratio into thirds.
func LevelFor(ratio float64) Level {
	switch {
	case ratio < 0.33:
		return LevelLow
	case ratio < 0.66:
		return LevelMid
	default:
		return LevelHigh
	}
}

// Symbols renders levels as text.
type Symbols struct {
	Low    string
	Mid    string
	High   string
	NoData string
}

// DefaultSymbols are emoji squares that survive copy and paste in chat apps.
var DefaultSymbols = Symbols{Low: "🟩", Mid: "🟨", High: "🟥", NoData: "⬜"}

// For returns the symbol for a level.
func (s Symbols) For(l Level) string {
	switch l {
	case LevelLow:
		return s.Low
	case LevelMid:
		return s.Mid
	case LevelHigh:
		return s.High
	default:
		return s.NoData
	}
}
