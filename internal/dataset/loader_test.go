package dataset

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const (
	usersCSV = `user_id,age,gender,occupation
1,24,F,student
2,35,M,engineer
3,52,M,doctor
`
	moviesCSV = `movie_id,title,year,genres
1,Comedy Night,1995,Comedy
2,Sad Story,1990,Drama
3,Mixed Feelings,1995,Comedy|Drama
`
	ratingsCSV = `user_id,movie_id,rating,timestamp
1,1,5,880000000
2,1,3,880000001
3,2,2,880000002
1,3,4,880000003
`
)

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestLoadJoined(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		usersFile:   usersCSV,
		moviesFile:  moviesCSV,
		ratingsFile: ratingsCSV,
	})

	data, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", data.Len())
	}
	stats := data.Stats()
	if stats.Ratings != 4 || stats.Movies != 3 || stats.Users != 3 {
		t.Fatalf("Stats() = %+v", stats)
	}

	rows := data.Rows()
	first := rows[0]
	if first.UserID != 1 || first.MovieID != 1 || first.Rating != 5 {
		t.Fatalf("first row = %+v", first)
	}
	if first.Title != "Comedy Night" || first.ReleaseYear != 1995 {
		t.Fatalf("movie attributes not joined: %+v", first)
	}
	if first.Age != 24 || first.Gender != "F" || first.Occupation != "student" {
		t.Fatalf("user attributes not joined: %+v", first)
	}

	last := rows[3]
	if !reflect.DeepEqual(last.Genres, []string{"Comedy", "Drama"}) {
		t.Fatalf("multi-genre not split: %v", last.Genres)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		usersFile:   usersCSV,
		moviesFile:  moviesCSV,
		ratingsFile: ratingsCSV,
	})

	data, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	catalog := data.Catalog()
	if !reflect.DeepEqual(catalog.Genders, []string{"F", "M"}) {
		t.Fatalf("Genders = %v", catalog.Genders)
	}
	if !reflect.DeepEqual(catalog.Occupations, []string{"doctor", "engineer", "student"}) {
		t.Fatalf("Occupations = %v", catalog.Occupations)
	}
	if !reflect.DeepEqual(catalog.Genres, []string{"Comedy", "Drama"}) {
		t.Fatalf("Genres = %v", catalog.Genres)
	}
	if catalog.AgeMin != 24 || catalog.AgeMax != 52 {
		t.Fatalf("age bounds = [%d,%d], want [24,52]", catalog.AgeMin, catalog.AgeMax)
	}
}

func TestLoadDenormalizedFallback(t *testing.T) {
	denorm := `user_id,movie_id,rating,timestamp,age,gender,occupation,title,year,genres
1,1,4,880000000,24,F,student,Comedy Night,1995,Comedy
2,1,2,880000001,35,M,engineer,Comedy Night,1995,Comedy
`
	// The pre-joined file wins even when the three-table layout is present.
	dir := writeFixture(t, map[string]string{
		denormalizedFile: denorm,
		usersFile:        usersCSV,
		moviesFile:       moviesCSV,
		ratingsFile:      ratingsCSV,
	})

	data, err := Load(dir, discard())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (denormalized file)", data.Len())
	}
	stats := data.Stats()
	if stats.Movies != 1 || stats.Users != 2 {
		t.Fatalf("Stats() = %+v", stats)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "missing ratings file",
			files: map[string]string{
				usersFile:  usersCSV,
				moviesFile: moviesCSV,
			},
			wantErr: "ratings.csv",
		},
		{
			name: "orphan rating unknown movie",
			files: map[string]string{
				usersFile:  usersCSV,
				moviesFile: moviesCSV,
				ratingsFile: `user_id,movie_id,rating,timestamp
1,99,4,880000000
`,
			},
			wantErr: "unknown movie 99",
		},
		{
			name: "orphan rating unknown user",
			files: map[string]string{
				usersFile:  usersCSV,
				moviesFile: moviesCSV,
				ratingsFile: `user_id,movie_id,rating,timestamp
42,1,4,880000000
`,
			},
			wantErr: "unknown user 42",
		},
		{
			name: "rating outside bounds",
			files: map[string]string{
				usersFile:  usersCSV,
				moviesFile: moviesCSV,
				ratingsFile: `user_id,movie_id,rating,timestamp
1,1,9,880000000
`,
			},
			wantErr: "rating 9 outside",
		},
		{
			name: "missing required column",
			files: map[string]string{
				usersFile: `user_id,age,gender
1,24,F
`,
				moviesFile:  moviesCSV,
				ratingsFile: ratingsCSV,
			},
			wantErr: "missing required column",
		},
		{
			name: "movie without genres",
			files: map[string]string{
				usersFile: usersCSV,
				moviesFile: `movie_id,title,year,genres
1,Comedy Night,1995,
`,
				ratingsFile: ratingsCSV,
			},
			wantErr: "missing genres",
		},
		{
			name: "no ratings",
			files: map[string]string{
				usersFile:  usersCSV,
				moviesFile: moviesCSV,
				ratingsFile: `user_id,movie_id,rating,timestamp
`,
			},
			wantErr: "contains no ratings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixture(t, tt.files)
			_, err := Load(dir, discard())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), discard())
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
