package query

import (
	"sort"

	"github.com/mlens/ratings-dashboard/internal/domain"
)

// GenreCount is one entry of the genre breakdown.
type GenreCount struct {
	Genre string
	Count int
}

// GenreSatisfaction is the mean rating of one genre.
type GenreSatisfaction struct {
	Genre     string
	AvgRating float64
	Count     int
}

// YearTrend is the mean rating of movies released in one year.
type YearTrend struct {
	Year      int
	AvgRating float64
	Count     int
}

// MovieRanking is one entry of a top-movies list.
type MovieRanking struct {
	MovieID   int
	Title     string
	AvgRating float64
	Count     int
}

// GenreBreakdown counts ratings per genre label over the filtered rows. A
// rating whose movie carries several genres is counted once per genre; when a
// genre selection is active only the selected labels are counted. Results are
// sorted by count descending, then genre ascending. Genres with no rows are
// absent, and zero rows yield an empty slice.
func GenreBreakdown(rows []domain.Row, sel Selection) []GenreCount {
	genres := toSet(sel.Genres)
	counts := make(map[string]int)
	for _, row := range rows {
		for _, g := range matchingGenres(row, genres) {
			counts[g]++
		}
	}

	result := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		result = append(result, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Genre < result[j].Genre
	})
	return result
}

// SatisfactionByGenre computes the arithmetic mean rating per genre with the
// same membership rule as GenreBreakdown. Genres with fewer than minRatings
// rows are excluded (0 disables the threshold); genres with zero rows are
// omitted rather than reported as zero. Results are sorted by mean
// descending, then genre ascending.
func SatisfactionByGenre(rows []domain.Row, sel Selection, minRatings int) []GenreSatisfaction {
	genres := toSet(sel.Genres)
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, row := range rows {
		for _, g := range matchingGenres(row, genres) {
			sums[g] += row.Rating
			counts[g]++
		}
	}

	result := make([]GenreSatisfaction, 0, len(counts))
	for genre, count := range counts {
		if count < minRatings {
			continue
		}
		result = append(result, GenreSatisfaction{
			Genre:     genre,
			AvgRating: float64(sums[genre]) / float64(count),
			Count:     count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgRating != result[j].AvgRating {
			return result[i].AvgRating > result[j].AvgRating
		}
		return result[i].Genre < result[j].Genre
	})
	return result
}

// TrendByYear computes the mean rating grouped by movie release year, each
// rating counted exactly once. Rows with an unknown release year are
// skipped. Results are sorted ascending by year.
func TrendByYear(rows []domain.Row) []YearTrend {
	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, row := range rows {
		if row.ReleaseYear == 0 {
			continue
		}
		sums[row.ReleaseYear] += row.Rating
		counts[row.ReleaseYear]++
	}

	result := make([]YearTrend, 0, len(counts))
	for year, count := range counts {
		result = append(result, YearTrend{
			Year:      year,
			AvgRating: float64(sums[year]) / float64(count),
			Count:     count,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result
}

// TopMovies ranks movies with at least minCount ratings in the filtered view
// by mean rating and returns the first limit entries. Ordering is mean
// descending, then ratings count descending, then movie ID ascending so that
// ties resolve deterministically regardless of input order.
func TopMovies(rows []domain.Row, minCount, limit int) []MovieRanking {
	sums := make(map[int]int)
	counts := make(map[int]int)
	titles := make(map[int]string)
	for _, row := range rows {
		sums[row.MovieID] += row.Rating
		counts[row.MovieID]++
		titles[row.MovieID] = row.Title
	}

	eligible := make([]MovieRanking, 0, len(counts))
	for id, count := range counts {
		if count < minCount {
			continue
		}
		eligible = append(eligible, MovieRanking{
			MovieID:   id,
			Title:     titles[id],
			AvgRating: float64(sums[id]) / float64(count),
			Count:     count,
		})
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].AvgRating != eligible[j].AvgRating {
			return eligible[i].AvgRating > eligible[j].AvgRating
		}
		if eligible[i].Count != eligible[j].Count {
			return eligible[i].Count > eligible[j].Count
		}
		return eligible[i].MovieID < eligible[j].MovieID
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible
}
