package domain

// Movie represents one entry of the movies table. Genres holds every genre
// label attached to the movie; the loader guarantees at least one label.
type Movie struct {
	ID          int
	Title       string
	ReleaseYear int // 0 when the release year is unknown
	Genres      []string
}
