package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
