package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Positions",
		Headers: []string{"Symbol", "Invested"},
		Rows: [][]string{
			{"AAPL", "$1,000.00"},
			{"MSFT", "$5.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7) // title, top, header, separator, 2 rows, bottom
	assert.Contains(t, out, "Positions")
	assert.Contains(t, out, "│ AAPL   │ $1,000.00 │")
	assert.Contains(t, out, "│ MSFT   │     $5.00 │")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues([][2]string{{"Invested", "$10.00"}, {"Growth", "+1.00%"}})

	assert.Contains(t, out, "Invested: $10.00")
	assert.Contains(t, out, "Growth:   +1.00%")
}

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart(amounts("1000", "1100", "1210"), []string{"0", "1", "2"}, 5)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7) // 5 rows, axis, labels
	assert.True(t, strings.HasPrefix(lines[0], "1210.00"))
	assert.True(t, strings.HasPrefix(lines[4], "1000.00"))
	// The tallest bar reaches the top row, the shortest only the bottom one
	assert.Equal(t, 1, strings.Count(lines[0], "██"))
	assert.Equal(t, 3, strings.Count(lines[4], "██"))
}

func TestRenderBarChart_ExactAxisLabels(t *testing.T) {
	huge := "1329227995784915872903807060280344576000"
	out := RenderBarChart(amounts("1000", huge), nil, 4)

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], huge+".00"))
	assert.Contains(t, lines[3], "1000.00")
}

func TestRenderBarChart_FlatSeries(t *testing.T) {
	out := RenderBarChart(amounts("5", "5"), nil, 3)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 2, strings.Count(lines[0], "██"))
	assert.Empty(t, RenderBarChart(nil, nil, 3))
}
