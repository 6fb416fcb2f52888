package heatmap

import "fmt"

// RenderedCell is everything a renderer needs for one grid position.
type RenderedCell struct {
	Key     Key
	HasData bool
	Cell    Cell
	Ratio   float64
	Level   Level
	Color   RGB
	Label   string
	Title   string
}

// Grid is the view model of a full heatmap table, row-major, 1-based keys.
type Grid struct {
	Rows  int
	Cols  int
	Scale Scale
	Cells [][]RenderedCell
}

// Render builds the view model for a rows x cols table. The scale spans every
// cell in h, including cells that fall outside the table.
func Render(h Heatmap, rows, cols int) Grid {
	rows, cols = max(rows, 0), max(cols, 0)
	scale := NewScale(h)
	g := Grid{
		Rows:  rows,
		Cols:  cols,
		Scale: scale,
		Cells: make([][]RenderedCell, rows),
	}
	for r := 1; r <= rows; r++ {
		line := make([]RenderedCell, cols)
		for c := 1; c <= cols; c++ {
			line[c-1] = renderCell(h, scale, Key{Row: r, Col: c})
		}
		g.Cells[r-1] = line
	}
	return g
}

// At returns the rendered cell for a 1-based key.
func (g Grid) At(row, col int) RenderedCell {
	return g.Cells[row-1][col-1]
}

func renderCell(h Heatmap, scale Scale, k Key) RenderedCell {
	cell, ok := h[k]
	if !ok {
		return RenderedCell{
			Key:   k,
			Level: LevelNoData,
			Color: NoDataColor,
			Label: "-",
			Title: "No data",
		}
	}
	ratio := scale.Ratio(cell.AvgEffective)
	return RenderedCell{
		Key:     k,
		HasData: true,
		Cell:    cell,
		Ratio:   ratio,
		Level:   LevelFor(ratio),
		Color:   ColorFor(ratio),
		Label:   fmt.Sprintf("%.1f", cell.AvgEffective),
		Title: fmt.Sprintf("Avg Effective Time: %.2f sec\nAttempts: %d\nWrong Answers: %d",
			cell.AvgEffective, cell.Count, cell.WrongCount),
	}
}
