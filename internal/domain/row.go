package domain

// Row is the denormalized join of one rating with its movie and user
// attributes. Every row maps to exactly one rating; all filtering and
// aggregation operates on rows. Rows are never mutated after load.
type Row struct {
	UserID      int
	MovieID     int
	Rating      int
	Timestamp   int64
	Title       string
	ReleaseYear int
	Genres      []string
	Age         int
	Gender      string
	Occupation  string
}
