package sharecard

import (
	"fmt"

	"github.com/riskibarqy/pickleball-league/internal/domain/standing"
	"github.com/valyala/bytebufferpool"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barWidth    = 56
	barSpacing  = 24
	minWidth    = 480
	chartHeight = 420
	maxLabelLen = 18
	emptyLabel  = "No matches yet"
)

// Palette colors a share image.
type Palette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is the league's court green on white.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Bar:        drawing.Color{R: 0x1f, G: 0x7a, B: 0x4d, A: 0xff},
	Text:       drawing.Color{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
}

// Renderer draws a division table as a PNG bar chart of win percentage.
type Renderer struct {
	palette Palette
}

func NewRenderer(palette Palette) *Renderer {
	return &Renderer{palette: palette}
}

// RenderStandings returns PNG bytes. Bars follow the order of entries.
func (r *Renderer) RenderStandings(title string, entries []standing.Entry) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	for _, entry := range entries {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d. %s", entry.Position, shorten(entry.Team)),
			Value: entry.WinPct,
			Style: chart.Style{
				FillColor:   r.palette.Bar,
				StrokeColor: r.palette.Bar,
				StrokeWidth: 1,
			},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: emptyLabel, Value: 0})
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: r.palette.Text},
		Width:      max(minWidth, len(bars)*(barWidth+barSpacing)+120),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			FillColor: r.palette.Background,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: r.palette.Background},
		XAxis:  chart.Style{FontColor: r.palette.Text, FontSize: 8},
		YAxis: chart.YAxis{
			Name:           "Win %",
			Style:          chart.Style{FontColor: r.palette.Text},
			ValueFormatter: chart.PercentValueFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render standings chart: %w", err)
	}

	return append([]byte(nil), buf.B...), nil
}

func shorten(name string) string {
	runes := []rune(name)
	if len(runes) <= maxLabelLen {
		return name
	}
	return string(runes[:maxLabelLen-1]) + "…"
}
