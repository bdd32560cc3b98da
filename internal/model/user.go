package model

import (
	"time"
)

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Address      string    `db:"address" json:"address"`
	Latitude     *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64  `db:"longitude" json:"longitude,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Only populated by proximity queries
	DistanceMeters *float64 `db:"distance_meters" json:"distance_meters,omitempty"`
}

func (u *User) IsVolunteer() bool {
	return u.Role == RoleVolunteer
}

func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
