package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlens/ratings-dashboard/internal/domain"
)

// csvTable holds a fully read CSV file with a header-derived column index.
// The dataset fits in memory by design, so there is no streaming path.
type csvTable struct {
	path    string
	columns map[string]int
	records [][]string
}

func readTable(path string, required ...string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s: file is empty", path)
	}

	columns := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	table := &csvTable{path: path, columns: columns, records: all[1:]}
	for _, name := range required {
		if _, ok := table.lookup(name); !ok {
			return nil, fmt.Errorf("read %s: missing required column %q", path, name)
		}
	}
	return table, nil
}

// lookup resolves a column name, accepting the genre/genres and
// year/release_year spellings seen across dataset exports.
func (t *csvTable) lookup(name string) (int, bool) {
	if idx, ok := t.columns[name]; ok {
		return idx, true
	}
	aliases := map[string][]string{
		"genres": {"genre"},
		"year":   {"release_year"},
	}
	for _, alias := range aliases[name] {
		if idx, ok := t.columns[alias]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (t *csvTable) field(record []string, name string) (string, bool) {
	idx, ok := t.lookup(name)
	if !ok || idx >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}

// line reports the 1-based file line of record i, accounting for the header.
func (t *csvTable) line(i int) int {
	return i + 2
}

func (t *csvTable) intField(record []string, i int, name string) (int, error) {
	raw, ok := t.field(record, name)
	if !ok {
		return 0, fmt.Errorf("%s line %d: missing %s", t.path, t.line(i), name)
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid %s %q", t.path, t.line(i), name, raw)
	}
	return val, nil
}

func (t *csvTable) ratingField(record []string, i int) (int, error) {
	val, err := t.intField(record, i, "rating")
	if err != nil {
		return 0, err
	}
	if val < domain.RatingMin || val > domain.RatingMax {
		return 0, fmt.Errorf("%s line %d: rating %d outside [%d,%d]",
			t.path, t.line(i), val, domain.RatingMin, domain.RatingMax)
	}
	return val, nil
}

func (t *csvTable) yearField(record []string, i int) (int, error) {
	raw, _ := t.field(record, "year")
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid year %q", t.path, t.line(i), raw)
	}
	return val, nil
}

func (t *csvTable) genresField(record []string, i int) ([]string, error) {
	raw, ok := t.field(record, "genres")
	if !ok || raw == "" {
		return nil, fmt.Errorf("%s line %d: missing genres", t.path, t.line(i))
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if g := strings.TrimSpace(part); g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return nil, fmt.Errorf("%s line %d: missing genres", t.path, t.line(i))
	}
	return genres, nil
}

func (t *csvTable) timestampField(record []string, i int) (int64, error) {
	raw, ok := t.field(record, "timestamp")
	if !ok || raw == "" {
		return 0, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid timestamp %q", t.path, t.line(i), raw)
	}
	return val, nil
}

// loadJoined reads the three-table layout and joins ratings to their movie
// and user attributes. The join must be total: an orphan rating is an error.
func loadJoined(dir string) ([]domain.Row, Stats, error) {
	users, err := loadUsers(filepath.Join(dir, usersFile))
	if err != nil {
		return nil, Stats{}, err
	}
	movies, err := loadMovies(filepath.Join(dir, moviesFile))
	if err != nil {
		return nil, Stats{}, err
	}

	path := filepath.Join(dir, ratingsFile)
	table, err := readTable(path, "user_id", "movie_id", "rating")
	if err != nil {
		return nil, Stats{}, err
	}

	rows := make([]domain.Row, 0, len(table.records))
	for i, record := range table.records {
		userID, err := table.intField(record, i, "user_id")
		if err != nil {
			return nil, Stats{}, err
		}
		movieID, err := table.intField(record, i, "movie_id")
		if err != nil {
			return nil, Stats{}, err
		}
		rating, err := table.ratingField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}
		ts, err := table.timestampField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}

		user, ok := users[userID]
		if !ok {
			return nil, Stats{}, fmt.Errorf("%s line %d: rating references unknown user %d", path, table.line(i), userID)
		}
		movie, ok := movies[movieID]
		if !ok {
			return nil, Stats{}, fmt.Errorf("%s line %d: rating references unknown movie %d", path, table.line(i), movieID)
		}

		rows = append(rows, domain.Row{
			UserID:      user.ID,
			MovieID:     movie.ID,
			Rating:      rating,
			Timestamp:   ts,
			Title:       movie.Title,
			ReleaseYear: movie.ReleaseYear,
			Genres:      movie.Genres,
			Age:         user.Age,
			Gender:      user.Gender,
			Occupation:  user.Occupation,
		})
	}

	return rows, Stats{Ratings: len(rows), Movies: len(movies), Users: len(users)}, nil
}

func loadUsers(path string) (map[int]domain.User, error) {
	table, err := readTable(path, "user_id", "age", "gender", "occupation")
	if err != nil {
		return nil, err
	}

	users := make(map[int]domain.User, len(table.records))
	for i, record := range table.records {
		id, err := table.intField(record, i, "user_id")
		if err != nil {
			return nil, err
		}
		if _, exists := users[id]; exists {
			return nil, fmt.Errorf("%s line %d: duplicate user %d", path, table.line(i), id)
		}
		age, err := table.intField(record, i, "age")
		if err != nil {
			return nil, err
		}
		gender, _ := table.field(record, "gender")
		occupation, _ := table.field(record, "occupation")
		if gender == "" || occupation == "" {
			return nil, fmt.Errorf("%s line %d: missing gender or occupation", path, table.line(i))
		}
		users[id] = domain.User{ID: id, Age: age, Gender: gender, Occupation: occupation}
	}
	return users, nil
}

func loadMovies(path string) (map[int]domain.Movie, error) {
	table, err := readTable(path, "movie_id", "title", "genres")
	if err != nil {
		return nil, err
	}

	movies := make(map[int]domain.Movie, len(table.records))
	for i, record := range table.records {
		id, err := table.intField(record, i, "movie_id")
		if err != nil {
			return nil, err
		}
		if _, exists := movies[id]; exists {
			return nil, fmt.Errorf("%s line %d: duplicate movie %d", path, table.line(i), id)
		}
		title, _ := table.field(record, "title")
		if title == "" {
			return nil, fmt.Errorf("%s line %d: missing title", path, table.line(i))
		}
		year, err := table.yearField(record, i)
		if err != nil {
			return nil, err
		}
		genres, err := table.genresField(record, i)
		if err != nil {
			return nil, err
		}
		movies[id] = domain.Movie{ID: id, Title: title, ReleaseYear: year, Genres: genres}
	}
	return movies, nil
}

// loadDenormalized reads the pre-joined single-file export, one row per rating.
func loadDenormalized(path string) ([]domain.Row, Stats, error) {
	table, err := readTable(path, "user_id", "movie_id", "rating", "age", "gender", "occupation", "title", "genres")
	if err != nil {
		return nil, Stats{}, err
	}

	rows := make([]domain.Row, 0, len(table.records))
	movieIDs := make(map[int]struct{})
	userIDs := make(map[int]struct{})
	for i, record := range table.records {
		userID, err := table.intField(record, i, "user_id")
		if err != nil {
			return nil, Stats{}, err
		}
		movieID, err := table.intField(record, i, "movie_id")
		if err != nil {
			return nil, Stats{}, err
		}
		rating, err := table.ratingField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}
		age, err := table.intField(record, i, "age")
		if err != nil {
			return nil, Stats{}, err
		}
		gender, _ := table.field(record, "gender")
		occupation, _ := table.field(record, "occupation")
		title, _ := table.field(record, "title")
		if gender == "" || occupation == "" || title == "" {
			return nil, Stats{}, fmt.Errorf("%s line %d: missing gender, occupation, or title", path, table.line(i))
		}
		year, err := table.yearField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}
		genres, err := table.genresField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}
		ts, err := table.timestampField(record, i)
		if err != nil {
			return nil, Stats{}, err
		}

		userIDs[userID] = struct{}{}
		movieIDs[movieID] = struct{}{}
		rows = append(rows, domain.Row{
			UserID:      userID,
			MovieID:     movieID,
			Rating:      rating,
			Timestamp:   ts,
			Title:       title,
			ReleaseYear: year,
			Genres:      genres,
			Age:         age,
			Gender:      gender,
			Occupation:  occupation,
		})
	}

	return rows, Stats{Ratings: len(rows), Movies: len(movieIDs), Users: len(userIDs)}, nil
}
