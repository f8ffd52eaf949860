package query

import (
	"github.com/mlens/ratings-dashboard/internal/domain"
)

// Selection holds the active filter constraints for one interaction. A nil
// bound or an empty set means no restriction on that dimension. Selections
// are transient; they are re-derived from the request on every interaction.
type Selection struct {
	AgeMin      *int
	AgeMax      *int
	Genders     []string
	Occupations []string
	Genres      []string
}

// Unrestricted reports whether the selection constrains no dimension.
func (s Selection) Unrestricted() bool {
	return s.AgeMin == nil && s.AgeMax == nil &&
		len(s.Genders) == 0 && len(s.Occupations) == 0 && len(s.Genres) == 0
}

// Apply returns the rows satisfying every active predicate. Dimensions
// combine with AND; within a multi-valued dimension membership is OR, so a
// row matches the genre dimension if it carries at least one selected genre.
// An empty result is a valid result, never an error.
func Apply(rows []domain.Row, sel Selection) []domain.Row {
	genders := toSet(sel.Genders)
	occupations := toSet(sel.Occupations)
	genres := toSet(sel.Genres)

	matched := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		if sel.AgeMin != nil && row.Age < *sel.AgeMin {
			continue
		}
		if sel.AgeMax != nil && row.Age > *sel.AgeMax {
			continue
		}
		if genders != nil {
			if _, ok := genders[row.Gender]; !ok {
				continue
			}
		}
		if occupations != nil {
			if _, ok := occupations[row.Occupation]; !ok {
				continue
			}
		}
		if genres != nil && !containsAny(row.Genres, genres) {
			continue
		}
		matched = append(matched, row)
	}
	return matched
}

// matchingGenres returns the genre labels a row contributes to under the
// selection: all of its genres when the genre dimension is unrestricted,
// otherwise only the selected ones.
func matchingGenres(row domain.Row, genres map[string]struct{}) []string {
	if genres == nil {
		return row.Genres
	}
	matched := make([]string, 0, len(row.Genres))
	for _, g := range row.Genres {
		if _, ok := genres[g]; ok {
			matched = append(matched, g)
		}
	}
	return matched
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func containsAny(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
