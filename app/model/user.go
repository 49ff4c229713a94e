// Package model holds the application's domain types.
package model

import "time"

// User is a registered account.
type User struct {
	CreatedAt time.Time `json:"created_at"` // zero = unknown
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ID        int64     `json:"id"` // 0 = not persisted
}

// Persisted reports whether the user has been saved.
func (u *User) Persisted() bool {
	return u.ID != 0
}
