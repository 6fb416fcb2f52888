package heatmap

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/fogleman/gg"
)

const defaultCellSize = 32

// WritePNG draws the grid with row and column headers and encodes it as PNG.
func WritePNG(w io.Writer, g Grid, cellSize int) error {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	size := float64(cellSize)
	width := (g.Cols + 1) * cellSize
	height := (g.Rows + 1) * cellSize

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetColor(color.Black)
	for c := 1; c <= g.Cols; c++ {
		dc.DrawStringAnchored(strconv.Itoa(c), float64(c)*size+size/2, size/2, 0.5, 0.5)
	}
	for r := 1; r <= g.Rows; r++ {
		dc.DrawStringAnchored(strconv.Itoa(r), size/2, float64(r)*size+size/2, 0.5, 0.5)
	}

	for _, line := range g.Cells {
		for _, cell := range line {
			x := float64(cell.Key.Col) * size
			y := float64(cell.Key.Row) * size

			dc.SetColor(cell.Color.NRGBA())
			dc.DrawRectangle(x, y, size, size)
			dc.Fill()

			dc.SetColor(color.White)
			dc.SetLineWidth(1)
			dc.DrawRectangle(x, y, size, size)
			dc.Stroke()

			dc.SetColor(color.Black)
			dc.DrawStringAnchored(cell.Label, x+size/2, y+size/2, 0.5, 0.5)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode heatmap png: %w", err)
	}
	return nil
}
