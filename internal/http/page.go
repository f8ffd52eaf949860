package httpserver

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mlens/ratings-dashboard/internal/dataset"
	"github.com/mlens/ratings-dashboard/internal/query"
)

// selectionState carries the form state back into the rendered page.
type selectionState struct {
	AgeMin      int
	AgeMax      int
	Genders     map[string]bool
	Occupations map[string]bool
	Genres      map[string]bool
	MinRatings  int
}

type dashboardPage struct {
	Catalog         dataset.Catalog
	State           selectionState
	TotalRatings    int
	MatchedRatings  int
	ChartQuery      template.URL
	Breakdown       []query.GenreCount
	Satisfaction    []query.GenreSatisfaction
	SatisfactionMin int
	Trend           []query.YearTrend
	Top50           []query.MovieRanking
	Top150          []query.MovieRanking
	Top50Min        int
	Top150Min       int
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	minRatings, err := buildMinRatings(r.URL.Query(), defaultSatisfactionMin)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	catalog := s.data.Catalog()
	rows := s.filtered(sel)

	page := dashboardPage{
		Catalog:         catalog,
		State:           newSelectionState(catalog, sel, minRatings),
		TotalRatings:    s.data.Len(),
		MatchedRatings:  len(rows),
		ChartQuery:      template.URL(chartQuery(sel, minRatings)),
		Breakdown:       s.genreBreakdown(rows, sel),
		Satisfaction:    s.satisfactionByGenre(rows, sel, minRatings),
		SatisfactionMin: minRatings,
		Trend:           s.trendByYear(rows),
		Top50:           s.topMovies(rows, topMoviesMinCountLow),
		Top150:          s.topMovies(rows, topMoviesMinCountHigh),
		Top50Min:        topMoviesMinCountLow,
		Top150Min:       topMoviesMinCountHigh,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, page); err != nil {
		s.logger.Printf("render dashboard: %v", err)
	}
}

func newSelectionState(catalog dataset.Catalog, sel query.Selection, minRatings int) selectionState {
	state := selectionState{
		AgeMin:      catalog.AgeMin,
		AgeMax:      catalog.AgeMax,
		Genders:     toBoolMap(sel.Genders),
		Occupations: toBoolMap(sel.Occupations),
		Genres:      toBoolMap(sel.Genres),
		MinRatings:  minRatings,
	}
	if sel.AgeMin != nil {
		state.AgeMin = *sel.AgeMin
	}
	if sel.AgeMax != nil {
		state.AgeMax = *sel.AgeMax
	}
	return state
}

// chartQuery rebuilds the canonical query string the chart image routes
// receive, so the page and its images always agree on the selection.
func chartQuery(sel query.Selection, minRatings int) string {
	values := url.Values{}
	if sel.AgeMin != nil {
		values.Set("ageMin", strconv.Itoa(*sel.AgeMin))
	}
	if sel.AgeMax != nil {
		values.Set("ageMax", strconv.Itoa(*sel.AgeMax))
	}
	for _, g := range sel.Genders {
		values.Add("gender", g)
	}
	for _, o := range sel.Occupations {
		values.Add("occupation", o)
	}
	for _, g := range sel.Genres {
		values.Add("genre", g)
	}
	if minRatings > 0 {
		values.Set("minRatings", strconv.Itoa(minRatings))
	}
	return values.Encode()
}

func toBoolMap(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
