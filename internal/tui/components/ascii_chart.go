package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// DataSeries is one line in a chart.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
	Char   rune
}

// ASCIIChart draws projected growth curves on a character grid. All series share the x axis.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
	// Target draws a horizontal reference line, typically the goal price. Zero disables it.
	Target float64
}

// NewASCIIChart creates an empty chart.
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     15,
		ShowLegend: true,
	}
}

// AddSeries adds a line to the chart.
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	chars := []rune{'●', '■', '▲', '♦', '◆'}
	c.Series = append(c.Series, &DataSeries{
		Name:   name,
		Points: points,
		Color:  color,
		Char:   chars[len(c.Series)%len(chars)],
	})
	return c
}

// WithSize sets the chart dimensions.
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	if width > 20 {
		c.Width = width
	}
	if height > 4 {
		c.Height = height
	}
	return c
}

// WithTarget draws the goal line.
func (c *ASCIIChart) WithTarget(target float64) *ASCIIChart {
	c.Target = target
	return c
}

// FromTrajectory builds a chart from sampled trajectory points: one series per visible profile,
// in the given order, plus the straight contributions baseline.
func FromTrajectory(title string, points []domain.TrajectoryPoint, order []string, labels map[string]string) *ASCIIChart {
	c := NewASCIIChart(title)
	if len(points) == 0 {
		return c
	}

	for i, name := range order {
		if _, ok := points[0].ProjectedValue[name]; !ok {
			continue
		}
		values := make([]float64, len(points))
		for j, pt := range points {
			values[j] = pt.ProjectedValue[name].InexactFloat64()
		}
		label := labels[name]
		if label == "" {
			label = name
		}
		c.AddSeries(label, values, tuistyles.SeriesColor(i))
	}

	baseline := make([]float64, len(points))
	for j, pt := range points {
		baseline[j] = pt.TotalContributed.InexactFloat64()
	}
	c.AddSeries("Contributed", baseline, tuistyles.ColorMuted)

	c.Labels = make([]string, len(points))
	for j, pt := range points {
		c.Labels[j] = fmt.Sprintf("m%d", pt.MonthIndex)
	}
	c.XAxisLabel = "months from today"
	return c
}

// Render returns the styled chart.
func (c *ASCIIChart) Render() string {
	if len(c.Series) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}
	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}
	return content.String()
}

// bounds returns the y range. Growth curves start at zero, so the floor is never above zero.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := 0.0, c.Target
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi + (hi-lo)*0.05
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	const yAxisWidth = 10
	chartWidth := c.Width - yAxisWidth - 3
	if chartWidth < 10 {
		chartWidth = 10
	}

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	row := func(v float64) int {
		return c.Height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(c.Height-1)))
	}
	col := func(i, n int) int {
		if n <= 1 {
			return 0
		}
		return int(math.Round(float64(i) / float64(n-1) * float64(chartWidth-1)))
	}

	if c.Target > 0 {
		if y := row(c.Target); y >= 0 && y < c.Height {
			for x := range grid[y] {
				grid[y][x] = '┄'
			}
		}
	}

	// Later series are drawn first so the first profile stays on top.
	for s := len(c.Series) - 1; s >= 0; s-- {
		series := c.Series[s]
		n := len(series.Points)
		for i, v := range series.Points {
			x, y := col(i, n), row(v)
			if i > 0 {
				drawLine(grid, col(i-1, n), row(series.Points[i-1]), x, y, series.Char)
			}
			if y >= 0 && y < c.Height {
				grid[y][x] = series.Char
			}
		}
	}

	var out strings.Builder
	yStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for i, r := range grid {
		v := hi - float64(i)/float64(c.Height-1)*(hi-lo)
		out.WriteString(yStyle.Render(formatChartValue(v)))
		out.WriteString(" │ ")
		out.WriteString(string(r))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth))
	if len(c.Labels) > 0 {
		out.WriteString("\n")
		out.WriteString(c.renderXAxisLabels(yAxisWidth+3, chartWidth))
	}
	return out.String()
}

// drawLine connects two points with Bresenham's algorithm without overwriting plotted cells.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for x, y := x0, y0; ; {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			if grid[y][x] == ' ' || grid[y][x] == '┄' {
				grid[y][x] = char
			}
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels shows the first, last and up to three labels in between.
func (c *ASCIIChart) renderXAxisLabels(indent, chartWidth int) string {
	const maxLabels = 5
	line := []rune(strings.Repeat(" ", chartWidth+8))
	n := len(c.Labels)
	step := (n - 1) / (maxLabels - 1)
	if step < 1 {
		step = 1
	}
	place := func(i int) {
		x := 0
		if n > 1 {
			x = int(math.Round(float64(i) / float64(n-1) * float64(chartWidth-1)))
		}
		for j, r := range c.Labels[i] {
			if x+j < len(line) {
				line[x+j] = r
			}
		}
	}
	for i := 0; i < n-1; i += step {
		place(i)
	}
	place(n - 1)
	return strings.Repeat(" ", indent) + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(s.Char))
		items = append(items, symbol+" "+s.Name)
	}
	if c.Target > 0 {
		items = append(items, "┄ goal")
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

// formatChartValue formats a y-axis value.
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("$%.1fM", value/1000000)
	case math.Abs(value) >= 10000:
		return fmt.Sprintf("$%.0fK", value/1000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.1fK", value/1000)
	}
	return fmt.Sprintf("$%.0f", value)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
