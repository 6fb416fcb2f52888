package heatmap

import "fmt"

// Downsample picks which original cells represent a sampleRows x sampleCols
// grid. Sample (i, j) maps to (i*rows/sampleRows+1, j*cols/sampleCols+1):
// the nearest lower cell, no averaging.
func Downsample(rows, cols, sampleRows, sampleCols int) ([][]Key, error) {
	if rows < 1 || cols < 1 || sampleRows < 1 || sampleCols < 1 {
		return nil, fmt.Errorf("downsample %dx%d to %dx%d: sizes must be positive", rows, cols, sampleRows, sampleCols)
	}
	if sampleRows > rows || sampleCols > cols {
		return nil, fmt.Errorf("downsample %dx%d to %dx%d: sample larger than grid", rows, cols, sampleRows, sampleCols)
	}

	keys := make([][]Key, sampleRows)
	for i := 0; i < sampleRows; i++ {
		line := make([]Key, sampleCols)
		for j := 0; j < sampleCols; j++ {
			line[j] = Key{
				Row: i*rows/sampleRows + 1,
				Col: j*cols/sampleCols + 1,
			}
		}
		keys[i] = line
	}
	return keys, nil
}
