package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const barWidth = 3

// RenderBarChart renders a vertical bar chart, one column per value.
// Bars span the range between the smallest and largest value, which the
// y-axis labels show with two decimals.
func RenderBarChart(values []decimal.Decimal, labels []string, height int) string {
	if len(values) == 0 {
		return ""
	}
	if height < 3 {
		height = 3
	}

	lo, hi := decimal.Min(values[0], values...), decimal.Max(values[0], values...)
	span := hi.Sub(lo)

	heights := make([]int, len(values))
	for i, v := range values {
		if span.IsZero() {
			heights[i] = height
			continue
		}
		ratio := v.Sub(lo).Div(span).InexactFloat64()
		heights[i] = 1 + int(math.Round(ratio*float64(height-1)))
	}

	top := hi.StringFixed(2)
	bottom := lo.StringFixed(2)
	axisWidth := max(len(top), len(bottom))

	barStyle := lipgloss.NewStyle().Foreground(ColorAccent)
	var b strings.Builder

	for row := height; row >= 1; row-- {
		axis := strings.Repeat(" ", axisWidth)
		switch row {
		case height:
			axis = fmt.Sprintf("%*s", axisWidth, top)
		case 1:
			axis = fmt.Sprintf("%*s", axisWidth, bottom)
		}
		b.WriteString(mutedStyle.Render(axis))
		b.WriteString(dimStyle.Render(" ┤"))

		for _, h := range heights {
			if h >= row {
				b.WriteString(barStyle.Render(" " + strings.Repeat("█", barWidth-1)))
			} else {
				b.WriteString(strings.Repeat(" ", barWidth))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", axisWidth))
	b.WriteString(dimStyle.Render(" └" + strings.Repeat("─", barWidth*len(values))))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", axisWidth+2))
	for i := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if len(label) > barWidth {
			label = label[len(label)-barWidth:]
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s", barWidth, label)))
	}
	b.WriteString("\n")

	return b.String()
}
