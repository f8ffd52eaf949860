package httpserver

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mlens/ratings-dashboard/internal/charts"
	"github.com/mlens/ratings-dashboard/internal/domain"
	"github.com/mlens/ratings-dashboard/internal/query"
)

const (
	topMoviesLimit = 5

	// Thresholds for the two best-rated-movies rankings.
	topMoviesMinCountLow  = 50
	topMoviesMinCountHigh = 150

	// Default minimum-sample threshold for genre satisfaction on the page.
	defaultSatisfactionMin = 50
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type summaryResponse struct {
	TotalRatings   int      `json:"totalRatings"`
	MatchedRatings int      `json:"matchedRatings"`
	Movies         int      `json:"movies"`
	Users          int      `json:"users"`
	AgeMin         int      `json:"ageMin"`
	AgeMax         int      `json:"ageMax"`
	Genders        []string `json:"genders"`
	Occupations    []string `json:"occupations"`
	Genres         []string `json:"genres"`
}

type genreCountItem struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type genreSatisfactionItem struct {
	Genre      string  `json:"genre"`
	AvgRating  float64 `json:"avgRating"`
	NumRatings int     `json:"numRatings"`
}

type yearTrendItem struct {
	Year       int     `json:"year"`
	AvgRating  float64 `json:"avgRating"`
	NumRatings int     `json:"numRatings"`
}

type movieRankingItem struct {
	MovieID    int     `json:"movieId"`
	Title      string  `json:"title"`
	AvgRating  float64 `json:"avgRating"`
	NumRatings int     `json:"numRatings"`
}

type genreBreakdownResponse struct {
	Items []genreCountItem `json:"items"`
}

type genreSatisfactionResponse struct {
	MinRatings int                     `json:"minRatings"`
	Items      []genreSatisfactionItem `json:"items"`
}

type yearTrendResponse struct {
	Items []yearTrendItem `json:"items"`
}

type topMoviesResponse struct {
	MinRatings int                `json:"minRatings"`
	Items      []movieRankingItem `json:"items"`
}

// filtered applies the selection to the full table, timing the recompute.
func (s *Server) filtered(sel query.Selection) []domain.Row {
	start := time.Now()
	rows := query.Apply(s.data.Rows(), sel)
	s.metrics.observeRecompute("filter", time.Since(start))
	return rows
}

func (s *Server) selectionFromRequest(w http.ResponseWriter, r *http.Request) (query.Selection, bool) {
	sel, err := buildSelection(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return query.Selection{}, false
	}
	return sel, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}

	catalog := s.data.Catalog()
	stats := s.data.Stats()
	s.respondJSON(w, http.StatusOK, summaryResponse{
		TotalRatings:   stats.Ratings,
		MatchedRatings: len(s.filtered(sel)),
		Movies:         stats.Movies,
		Users:          stats.Users,
		AgeMin:         catalog.AgeMin,
		AgeMax:         catalog.AgeMax,
		Genders:        catalog.Genders,
		Occupations:    catalog.Occupations,
		Genres:         catalog.Genres,
	})
}

func (s *Server) handleGenreBreakdown(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}

	counts := s.genreBreakdown(s.filtered(sel), sel)
	items := make([]genreCountItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, genreCountItem{Genre: c.Genre, Count: c.Count})
	}
	s.respondJSON(w, http.StatusOK, genreBreakdownResponse{Items: items})
}

func (s *Server) handleGenreSatisfaction(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	minRatings, err := buildMinRatings(r.URL.Query(), 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	stats := s.satisfactionByGenre(s.filtered(sel), sel, minRatings)
	items := make([]genreSatisfactionItem, 0, len(stats))
	for _, st := range stats {
		items = append(items, genreSatisfactionItem{Genre: st.Genre, AvgRating: st.AvgRating, NumRatings: st.Count})
	}
	s.respondJSON(w, http.StatusOK, genreSatisfactionResponse{MinRatings: minRatings, Items: items})
}

func (s *Server) handleYearTrend(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}

	points := s.trendByYear(s.filtered(sel))
	items := make([]yearTrendItem, 0, len(points))
	for _, p := range points {
		items = append(items, yearTrendItem{Year: p.Year, AvgRating: p.AvgRating, NumRatings: p.Count})
	}
	s.respondJSON(w, http.StatusOK, yearTrendResponse{Items: items})
}

func (s *Server) handleTopMovies(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	minRatings, err := buildMinRatings(r.URL.Query(), topMoviesMinCountLow)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	rankings := s.topMovies(s.filtered(sel), minRatings)
	items := make([]movieRankingItem, 0, len(rankings))
	for _, m := range rankings {
		items = append(items, movieRankingItem{MovieID: m.MovieID, Title: m.Title, AvgRating: m.AvgRating, NumRatings: m.Count})
	}
	s.respondJSON(w, http.StatusOK, topMoviesResponse{MinRatings: minRatings, Items: items})
}

func (s *Server) handleGenreBreakdownChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	png, err := s.charts.GenreBreakdown(s.genreBreakdown(s.filtered(sel), sel))
	s.respondChart(w, png, err)
}

func (s *Server) handleGenreSatisfactionChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	minRatings, err := buildMinRatings(r.URL.Query(), 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	png, err := s.charts.GenreSatisfaction(s.satisfactionByGenre(s.filtered(sel), sel, minRatings))
	s.respondChart(w, png, err)
}

func (s *Server) handleYearTrendChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectionFromRequest(w, r)
	if !ok {
		return
	}
	png, err := s.charts.YearTrend(s.trendByYear(s.filtered(sel)))
	s.respondChart(w, png, err)
}

func (s *Server) respondChart(w http.ResponseWriter, png []byte, err error) {
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Printf("chart render error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Timed aggregation wrappers feeding the recompute histogram.

func (s *Server) genreBreakdown(rows []domain.Row, sel query.Selection) []query.GenreCount {
	start := time.Now()
	counts := query.GenreBreakdown(rows, sel)
	s.metrics.observeRecompute("genre_breakdown", time.Since(start))
	return counts
}

func (s *Server) satisfactionByGenre(rows []domain.Row, sel query.Selection, minRatings int) []query.GenreSatisfaction {
	start := time.Now()
	stats := query.SatisfactionByGenre(rows, sel, minRatings)
	s.metrics.observeRecompute("genre_satisfaction", time.Since(start))
	return stats
}

func (s *Server) trendByYear(rows []domain.Row) []query.YearTrend {
	start := time.Now()
	points := query.TrendByYear(rows)
	s.metrics.observeRecompute("year_trend", time.Since(start))
	return points
}

func (s *Server) topMovies(rows []domain.Row, minCount int) []query.MovieRanking {
	start := time.Now()
	rankings := query.TopMovies(rows, minCount, topMoviesLimit)
	s.metrics.observeRecompute("top_movies", time.Since(start))
	return rankings
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
