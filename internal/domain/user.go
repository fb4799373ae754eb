package domain

import (
	"time"
)

// User is the sole entity of the service: one row of the users table.
// Age is nil when unknown; zero is a legitimate age.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserParams holds the sanitized, validated fields for inserting a user.
// Identity and timestamps are assigned by storage.
type NewUserParams struct {
	Name  string
	Email string
	Age   *int
}

// UserPatch describes a partial update. Nil Name or Email means "leave unchanged".
// Age is applied only when SetAge is true; a nil Age with SetAge clears it.
type UserPatch struct {
	Name   *string
	Email  *string
	Age    *int
	SetAge bool
}

// IsEmpty reports whether the patch changes no field.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && !p.SetAge
}
