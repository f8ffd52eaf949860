package dataset

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/mlens/ratings-dashboard/internal/domain"
)

// Expected file names inside DATA_DIR. The three-table layout is preferred;
// movie_ratings.csv is the pre-joined single-file form and wins when present.
const (
	ratingsFile      = "ratings.csv"
	moviesFile       = "movies.csv"
	usersFile        = "users.csv"
	denormalizedFile = "movie_ratings.csv"
)

// Catalog lists the observed value domains used to populate filter widgets.
type Catalog struct {
	Genders     []string
	Occupations []string
	Genres      []string
	AgeMin      int
	AgeMax      int
}

// Stats exposes dataset cardinalities for logging and metrics.
type Stats struct {
	Ratings int
	Movies  int
	Users   int
}

// Dataset is the immutable joined table. It is built exactly once at startup
// and treated as read-only for the process lifetime, so concurrent readers
// need no locking.
type Dataset struct {
	rows    []domain.Row
	catalog Catalog
	stats   Stats
}

// Load reads the dataset files from dir and joins them into rows. Any missing
// file, malformed record, or rating referencing an unknown movie or user is a
// fatal load error; there is no partial load.
func Load(dir string, logger *log.Logger) (*Dataset, error) {
	if logger == nil {
		logger = log.Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open data dir: %s is not a directory", dir)
	}

	var rows []domain.Row
	var stats Stats
	denorm := filepath.Join(dir, denormalizedFile)
	if _, err := os.Stat(denorm); err == nil {
		logger.Printf("dataset: loading pre-joined table from %s", denorm)
		rows, stats, err = loadDenormalized(denorm)
		if err != nil {
			return nil, err
		}
	} else {
		rows, stats, err = loadJoined(dir)
		if err != nil {
			return nil, err
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset in %s contains no ratings", dir)
	}

	catalog := buildCatalog(rows)
	logger.Printf("dataset: loaded %d ratings across %d movies and %d users (%d genres)",
		stats.Ratings, stats.Movies, stats.Users, len(catalog.Genres))

	return &Dataset{rows: rows, catalog: catalog, stats: stats}, nil
}

// Rows returns the joined table. Callers must treat the slice as read-only.
func (d *Dataset) Rows() []domain.Row {
	return d.rows
}

// Catalog returns the filter option domains observed in the data.
func (d *Dataset) Catalog() Catalog {
	return d.catalog
}

// Stats returns dataset cardinalities.
func (d *Dataset) Stats() Stats {
	return d.stats
}

// Len returns the number of ratings in the joined table.
func (d *Dataset) Len() int {
	return len(d.rows)
}

func buildCatalog(rows []domain.Row) Catalog {
	genders := make(map[string]struct{})
	occupations := make(map[string]struct{})
	genres := make(map[string]struct{})
	ageMin, ageMax := rows[0].Age, rows[0].Age

	for _, row := range rows {
		genders[row.Gender] = struct{}{}
		occupations[row.Occupation] = struct{}{}
		for _, g := range row.Genres {
			genres[g] = struct{}{}
		}
		if row.Age < ageMin {
			ageMin = row.Age
		}
		if row.Age > ageMax {
			ageMax = row.Age
		}
	}

	return Catalog{
		Genders:     sortedKeys(genders),
		Occupations: sortedKeys(occupations),
		Genres:      sortedKeys(genres),
		AgeMin:      ageMin,
		AgeMax:      ageMax,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
