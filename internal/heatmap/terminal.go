package heatmap

import (
	"fmt"
	"io"
	"strings"
)

// WriteANSI prints the grid as a table. With color set, cells get a 24-bit
// background; otherwise only labels are printed.
func WriteANSI(w io.Writer, g Grid, color bool) error {
	var b strings.Builder

	b.WriteString("    ")
	for c := 1; c <= g.Cols; c++ {
		fmt.Fprintf(&b, "%5d", c)
	}
	b.WriteByte('\n')

	for _, line := range g.Cells {
		if len(line) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%4d", line[0].Key.Row)
		for _, cell := range line {
			if color {
				fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[30m%5s\x1b[0m", cell.Color.R, cell.Color.G, cell.Color.B, cell.Label)
				continue
			}
			fmt.Fprintf(&b, "%5s", cell.Label)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
