package domain

// User represents one entry of the users table.
type User struct {
	ID         int
	Age        int
	Gender     string
	Occupation string
}
