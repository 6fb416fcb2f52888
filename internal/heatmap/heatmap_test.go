package heatmap

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeatmap() Heatmap {
	return Heatmap{
		{Row: 1, Col: 1}: {AvgEffective: 2.0, Count: 4, WrongCount: 0},
		{Row: 1, Col: 5}: {AvgEffective: 8.0, Count: 2, WrongCount: 1},
		{Row: 1, Col: 9}: {AvgEffective: 5.0, Count: 3, WrongCount: 0},
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("7_12")
	require.NoError(t, err)
	assert.Equal(t, Key{Row: 7, Col: 12}, k)
	assert.Equal(t, "7_12", k.String())

	for _, bad := range []string{"", "7", "7-12", "a_1", "1_b", "0_3"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestHeatmapJSON(t *testing.T) {
	var h Heatmap
	payload := `{"3_4":{"avg_effective":2.5,"count":2,"wrong_count":1},"20_20":{"avg_effective":11.0,"count":1,"wrong_count":1}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &h))

	cell, ok := h.Lookup(3, 4)
	require.True(t, ok)
	assert.Equal(t, Cell{AvgEffective: 2.5, Count: 2, WrongCount: 1}, cell)
	_, ok = h.Lookup(4, 3)
	assert.False(t, ok)

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &h))
}

func TestHeatmapJSONSkipsBadKeys(t *testing.T) {
	var h Heatmap
	payload := `{"1_1":{"avg_effective":2,"count":1,"wrong_count":0},"0_3":{"avg_effective":9,"count":1,"wrong_count":1},"3x4":{}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &h))
	assert.Len(t, h, 1)
	_, ok := h.Lookup(1, 1)
	assert.True(t, ok)

	_, skipped := FromWire(map[string]Cell{"1_1": {}, "0_3": {}, "3x4": {}})
	assert.Equal(t, []string{"0_3", "3x4"}, skipped)
}

func TestRenderNegativeSize(t *testing.T) {
	g := Render(sampleHeatmap(), -1, 5)
	assert.Equal(t, 0, g.Rows)
	assert.Empty(t, g.Cells)

	g = Render(sampleHeatmap(), 2, -3)
	require.Len(t, g.Cells, 2)
	assert.Empty(t, g.Cells[0])
}

func TestScaleEmptyDefaults(t *testing.T) {
	s := NewScale(nil)
	assert.Equal(t, Scale{Min: 0, Max: 1}, s)
}

func TestRatioBounds(t *testing.T) {
	h := sampleHeatmap()
	s := NewScale(h)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 8.0, s.Max)

	assert.Equal(t, 0.0, s.Ratio(2.0))
	assert.InDelta(t, 1.0, s.Ratio(8.0), 1e-3)

	mid := s.Ratio(5.0)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)

	assert.Equal(t, 0.0, s.Ratio(-10))
	assert.Equal(t, 1.0, s.Ratio(100))
}

func TestRatioSingleValueIsFinite(t *testing.T) {
	s := NewScale(Heatmap{{Row: 1, Col: 1}: {AvgEffective: 3}, {Row: 2, Col: 2}: {AvgEffective: 3}})
	assert.Equal(t, 0.0, s.Ratio(3))
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, RGB{R: 0, G: 200, B: 0}, ColorFor(0))
	assert.Equal(t, RGB{R: 255, G: 0, B: 0}, ColorFor(1))
	assert.Equal(t, RGB{R: 128, G: 100, B: 0}, ColorFor(0.5))

	s := NewScale(sampleHeatmap())
	assert.Equal(t, RGB{R: 255, G: 0, B: 0}, ColorFor(s.Ratio(8.0)))
	assert.Equal(t, "rgb(0, 200, 0)", ColorFor(0).CSS())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelLow, LevelFor(0))
	assert.Equal(t, LevelLow, LevelFor(0.329))
	assert.Equal(t, LevelMid, LevelFor(0.33))
	assert.Equal(t, LevelMid, LevelFor(0.659))
	assert.Equal(t, LevelHigh, LevelFor(0.66))
	assert.Equal(t, LevelHigh, LevelFor(1))
	assert.Equal(t, "⬜", DefaultSymbols.For(LevelNoData))
}

func TestRender(t *testing.T) {
	g := Render(sampleHeatmap(), 20, 20)
	require.Len(t, g.Cells, 20)
	require.Len(t, g.Cells[0], 20)

	fast := g.At(1, 1)
	assert.True(t, fast.HasData)
	assert.Equal(t, "2.0", fast.Label)
	assert.Equal(t, LevelLow, fast.Level)
	assert.Equal(t, "Avg Effective Time: 2.00 sec\nAttempts: 4\nWrong Answers: 0", fast.Title)

	slow := g.At(1, 5)
	assert.Equal(t, LevelHigh, slow.Level)

	empty := g.At(20, 20)
	assert.False(t, empty.HasData)
	assert.Equal(t, "-", empty.Label)
	assert.Equal(t, "No data", empty.Title)
	assert.Equal(t, NoDataColor, empty.Color)
	assert.Equal(t, Key{Row: 20, Col: 20}, empty.Key)
}

func TestDownsampleRowZero(t *testing.T) {
	keys, err := Downsample(20, 20, 5, 5)
	require.NoError(t, err)
	require.Len(t, keys, 5)

	assert.Equal(t, []Key{
		{Row: 1, Col: 1}, {Row: 1, Col: 5}, {Row: 1, Col: 9}, {Row: 1, Col: 13}, {Row: 1, Col: 17},
	}, keys[0])
	assert.Equal(t, Key{Row: 17, Col: 17}, keys[4][4])

	again, err := Downsample(20, 20, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, keys, again)
}

func TestDownsampleIdentityAndErrors(t *testing.T) {
	keys, err := Downsample(12, 12, 12, 12)
	require.NoError(t, err)
	for i, line := range keys {
		for j, k := range line {
			assert.Equal(t, Key{Row: i + 1, Col: j + 1}, k)
		}
	}

	_, err = Downsample(5, 5, 6, 5)
	assert.Error(t, err)
	_, err = Downsample(5, 5, 0, 5)
	assert.Error(t, err)
}

func TestShareText(t *testing.T) {
	text, err := ShareText(sampleHeatmap(), ShareOptions{
		Rows: 20, Cols: 20, SampleRows: 5, SampleCols: 5,
		UserAvg: 6.4, UserCount: 25,
	})
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Times Tables 20x20", lines[0])
	assert.Equal(t, "🟩🟥🟨⬜⬜", lines[1])
	assert.Equal(t, "⬜⬜⬜⬜⬜", lines[5])
	assert.Equal(t, "My average: 6.40 s over 25 answers", lines[6])

	_, err = ShareText(nil, ShareOptions{Rows: 3, Cols: 3, SampleRows: 5, SampleCols: 5})
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, Render(sampleHeatmap(), 12, 12), 10))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 130, cfg.Width)
	assert.Equal(t, 130, cfg.Height)
}

func TestWriteANSI(t *testing.T) {
	var plain bytes.Buffer
	require.NoError(t, WriteANSI(&plain, Render(sampleHeatmap(), 2, 5), false))
	lines := strings.Split(strings.TrimRight(plain.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "        1    2    3    4    5", lines[0])
	assert.Equal(t, "   1  2.0    -    -    -  8.0", lines[1])
	assert.NotContains(t, plain.String(), "\x1b[")

	var colored bytes.Buffer
	require.NoError(t, WriteANSI(&colored, Render(sampleHeatmap(), 2, 5), true))
	assert.Contains(t, colored.String(), "\x1b[48;2;0;200;0m")
}
