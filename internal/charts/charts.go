package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/mlens/ratings-dashboard/internal/domain"
	"github.com/mlens/ratings-dashboard/internal/query"
)

// ErrNoData indicates the aggregation produced zero groups. The caller
// renders the empty state; this is not a rendering fault.
var ErrNoData = errors.New("charts: no data")

// Renderer produces PNG charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// New constructs a Renderer with the given canvas size in pixels.
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// GenreBreakdown renders the ratings-per-genre bar chart.
func (r *Renderer) GenreBreakdown(counts []query.GenreCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{Label: c.Genre, Value: float64(c.Count)})
	}

	bc := chart.BarChart{
		Title:      "Ratings by Genre",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   r.barWidth(len(bars)),
		BarSpacing: r.barSpacing(len(bars)),
		Bars:       bars,
	}
	return renderPNG(&bc)
}

// GenreSatisfaction renders the mean-rating-per-genre bar chart. The y axis
// is pinned to the rating scale so charts stay comparable across filters.
func (r *Renderer) GenreSatisfaction(stats []query.GenreSatisfaction) ([]byte, error) {
	if len(stats) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(stats))
	for _, s := range stats {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%.2f)", s.Genre, s.AvgRating),
			Value: s.AvgRating,
		})
	}

	bc := chart.BarChart{
		Title:      "Average Rating by Genre",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   r.barWidth(len(bars)),
		BarSpacing: r.barSpacing(len(bars)),
		Bars:       bars,
		YAxis:      ratingAxis(),
	}
	return renderPNG(&bc)
}

// YearTrend renders the mean-rating-by-release-year line chart.
func (r *Renderer) YearTrend(points []query.YearTrend) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, float64(p.Year))
		ys = append(ys, p.AvgRating)
	}
	// go-chart needs at least two x values to establish a range.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	c := chart.Chart{
		Title:  "Average Rating by Release Year",
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			ValueFormatter: yearFormatter,
		},
		YAxis: ratingAxis(),
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "mean rating",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return renderPNG(&c)
}

type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(c pngRenderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func ratingAxis() chart.YAxis {
	return chart.YAxis{
		Range: &chart.ContinuousRange{
			Min: float64(domain.RatingMin) - 0.1,
			Max: float64(domain.RatingMax) + 0.1,
		},
	}
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

// barWidth spreads the bars across the canvas, leaving margin for axes.
func (r *Renderer) barWidth(bars int) int {
	if bars == 0 {
		return 0
	}
	w := (r.width - 100) / (bars * 2)
	if w < 8 {
		w = 8
	}
	if w > 60 {
		w = 60
	}
	return w
}

func (r *Renderer) barSpacing(bars int) int {
	s := r.barWidth(bars) / 2
	if s < 4 {
		s = 4
	}
	return s
}
