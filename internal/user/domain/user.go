package domain

import "time"

type ID string

// User is the canonical account record. The password digest lives in a
// separate credential store and never appears here.
type User struct {
	ID        ID
	Username  string
	Email     string
	CreatedAt time.Time
}
