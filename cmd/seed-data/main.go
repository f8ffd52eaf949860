// Command seed-data writes a small synthetic MovieLens-style dataset
// (ratings.csv, movies.csv, users.csv) so the dashboard can be run locally
// without the real export.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var genrePool = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Fantasy", "Horror", "Musical", "Mystery", "Romance",
	"Sci-Fi", "Thriller", "War", "Western",
}

var occupationPool = []string{
	"academic", "artist", "doctor", "educator", "engineer", "entertainment",
	"executive", "homemaker", "lawyer", "librarian", "programmer", "retired",
	"salesman", "scientist", "student", "technician", "writer",
}

func main() {
	var (
		dir     = flag.String("dir", "testdata", "output directory")
		users   = flag.Int("users", 200, "number of users")
		movies  = flag.Int("movies", 400, "number of movies")
		ratings = flag.Int("ratings", 20000, "number of ratings")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	rnd := rand.New(rand.NewSource(*seed))

	if err := writeUsers(filepath.Join(*dir, "users.csv"), *users, rnd); err != nil {
		log.Fatalf("write users: %v", err)
	}
	if err := writeMovies(filepath.Join(*dir, "movies.csv"), *movies, rnd); err != nil {
		log.Fatalf("write movies: %v", err)
	}
	if err := writeRatings(filepath.Join(*dir, "ratings.csv"), *ratings, *users, *movies, rnd); err != nil {
		log.Fatalf("write ratings: %v", err)
	}

	log.Printf("wrote %d users, %d movies, %d ratings to %s", *users, *movies, *ratings, *dir)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeUsers(path string, n int, rnd *rand.Rand) error {
	rows := make([][]string, 0, n)
	for id := 1; id <= n; id++ {
		gender := "M"
		if rnd.Intn(2) == 0 {
			gender = "F"
		}
		rows = append(rows, []string{
			strconv.Itoa(id),
			strconv.Itoa(18 + rnd.Intn(55)),
			gender,
			occupationPool[rnd.Intn(len(occupationPool))],
		})
	}
	return writeCSV(path, []string{"user_id", "age", "gender", "occupation"}, rows)
}

func writeMovies(path string, n int, rnd *rand.Rand) error {
	rows := make([][]string, 0, n)
	for id := 1; id <= n; id++ {
		year := 1950 + rnd.Intn(50)
		count := 1 + rnd.Intn(3)
		picked := rnd.Perm(len(genrePool))[:count]
		genres := make([]string, 0, count)
		for _, idx := range picked {
			genres = append(genres, genrePool[idx])
		}
		rows = append(rows, []string{
			strconv.Itoa(id),
			fmt.Sprintf("Movie %d (%d)", id, year),
			strconv.Itoa(year),
			strings.Join(genres, "|"),
		})
	}
	return writeCSV(path, []string{"movie_id", "title", "year", "genres"}, rows)
}

func writeRatings(path string, n, users, movies int, rnd *rand.Rand) error {
	rows := make([][]string, 0, n)
	base := int64(880000000)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(1 + rnd.Intn(users)),
			strconv.Itoa(1 + rnd.Intn(movies)),
			strconv.Itoa(1 + rnd.Intn(5)),
			strconv.FormatInt(base+int64(rnd.Intn(50000000)), 10),
		})
	}
	return writeCSV(path, []string{"user_id", "movie_id", "rating", "timestamp"}, rows)
}
