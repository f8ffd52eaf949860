package httpserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mlens/ratings-dashboard/internal/query"
)

// buildSelection parses the shared filter query parameters. Multi-valued
// dimensions repeat the parameter (gender=M&gender=F); an absent dimension
// leaves that dimension unrestricted.
func buildSelection(values url.Values) (query.Selection, error) {
	var sel query.Selection

	if val := strings.TrimSpace(values.Get("ageMin")); val != "" {
		age, err := strconv.Atoi(val)
		if err != nil {
			return sel, fmt.Errorf("invalid ageMin value")
		}
		sel.AgeMin = &age
	}
	if val := strings.TrimSpace(values.Get("ageMax")); val != "" {
		age, err := strconv.Atoi(val)
		if err != nil {
			return sel, fmt.Errorf("invalid ageMax value")
		}
		sel.AgeMax = &age
	}
	if sel.AgeMin != nil && sel.AgeMax != nil && *sel.AgeMin > *sel.AgeMax {
		return sel, fmt.Errorf("ageMin cannot exceed ageMax")
	}

	sel.Genders = cleanValues(values["gender"])
	sel.Occupations = cleanValues(values["occupation"])
	sel.Genres = cleanValues(values["genre"])

	return sel, nil
}

// buildMinRatings parses the optional minimum-sample threshold.
func buildMinRatings(values url.Values, fallback int) (int, error) {
	val := strings.TrimSpace(values.Get("minRatings"))
	if val == "" {
		return fallback, nil
	}
	min, err := strconv.Atoi(val)
	if err != nil || min < 0 {
		return 0, fmt.Errorf("invalid minRatings value")
	}
	return min, nil
}

func cleanValues(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, val := range raw {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
