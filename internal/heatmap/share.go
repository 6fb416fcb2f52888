package heatmap

import (
	"fmt"
	"strings"
)

// ShareOptions controls the compact text summary.
type ShareOptions struct {
	Rows       int
	Cols       int
	SampleRows int
	SampleCols int
	UserAvg    float64
	UserCount  int
	Symbols    Symbols
	Title      string
}

// ShareText renders a down-sampled symbol grid with the user's average and
// attempt count, ready for the clipboard.
func ShareText(h Heatmap, opts ShareOptions) (string, error) {
	keys, err := Downsample(opts.Rows, opts.Cols, opts.SampleRows, opts.SampleCols)
	if err != nil {
		return "", err
	}
	symbols := opts.Symbols
	if symbols == (Symbols{}) {
		symbols = DefaultSymbols
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Times Tables %dx%d", opts.Rows, opts.Cols)
	}

	scale := NewScale(h)
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for _, line := range keys {
		for _, k := range line {
			cell, ok := h[k]
			if !ok {
				b.WriteString(symbols.NoData)
				continue
			}
			b.WriteString(symbols.For(LevelFor(scale.Ratio(cell.AvgEffective))))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "My average: %.2f s over %d answers", opts.UserAvg, opts.UserCount)
	return b.String(), nil
}
