package heatmap

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Key addresses one (multiplicand, multiplier) pair. Both sides are 1-based.
type Key struct {
	Row int
	Col int
}

// ParseKey parses the backend's "row_col" form.
func ParseKey(s string) (Key, error) {
	rowPart, colPart, ok := strings.Cut(s, "_")
	if !ok {
		return Key{}, fmt.Errorf("heatmap key %q: missing separator", s)
	}
	row, err := strconv.Atoi(rowPart)
	if err != nil {
		return Key{}, fmt.Errorf("heatmap key %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(colPart)
	if err != nil {
		return Key{}, fmt.Errorf("heatmap key %q: col: %w", s, err)
	}
	if row < 1 || col < 1 {
		return Key{}, fmt.Errorf("heatmap key %q: indices are 1-based", s)
	}
	return Key{Row: row, Col: col}, nil
}

func (k Key) String() string {
	return strconv.Itoa(k.Row) + "_" + strconv.Itoa(k.Col)
}

// Cell is the backend aggregate for one pair across all submissions.
type Cell struct {
	AvgEffective float64 `json:"avg_effective"`
	Count        int     `json:"count"`
	WrongCount   int     `json:"wrong_count"`
}

// Heatmap maps pair keys to aggregates. Missing keys mean "no data".
type Heatmap map[Key]Cell

func (h Heatmap) MarshalJSON() ([]byte, error) {
	out := make(map[string]Cell, len(h))
	for k, c := range h {
		out[k.String()] = c
	}
	return json.Marshal(out)
}

// UnmarshalJSON drops keys that do not parse; see FromWire.
func (h *Heatmap) UnmarshalJSON(data []byte) error {
	var raw map[string]Cell
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h, _ = FromWire(raw)
	return nil
}

// FromWire converts the backend's keyed cells. Keys that do not parse are
// left out and returned, sorted, so the rest of the grid stays usable.
func FromWire(raw map[string]Cell) (Heatmap, []string) {
	out := make(Heatmap, len(raw))
	var skipped []string
	for s, c := range raw {
		k, err := ParseKey(s)
		if err != nil {
			skipped = append(skipped, s)
			continue
		}
		out[k] = c
	}
	slices.Sort(skipped)
	return out, skipped
}

// Lookup returns the cell for (row, col) and whether it is present.
func (h Heatmap) Lookup(row, col int) (Cell, bool) {
	c, ok := h[Key{Row: row, Col: col}]
	return c, ok
}
