package domain

// Bounds of the dataset's star scale. Ratings are whole stars; the loader
// rejects anything outside this range.
const (
	RatingMin = 1
	RatingMax = 5
)
