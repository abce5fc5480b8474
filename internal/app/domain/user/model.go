package user

import "time"

// User is a registered customer account. Email is the unique key; the
// password field always holds a bcrypt digest, never plaintext, and is
// excluded from JSON output.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
