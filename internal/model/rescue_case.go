package model

import (
	"time"
)

const (
	CaseStatusPending   = "pending"
	CaseStatusAssigned  = "assigned"
	CaseStatusResolved  = "resolved"
	CaseStatusCancelled = "cancelled"
)

type RescueCase struct {
	ID                  string    `db:"id" json:"id"`
	Title               string    `db:"title" json:"title"`
	Description         string    `db:"description" json:"description"`
	ImageURL            *string   `db:"image_url" json:"image_url"`
	Latitude            float64   `db:"latitude" json:"latitude"`
	Longitude           float64   `db:"longitude" json:"longitude"`
	ReporterUserID      string    `db:"reporter_user_id" json:"reporter_user_id"`
	AssignedVolunteerID *string   `db:"assigned_volunteer_id" json:"assigned_volunteer_id"`
	Status              string    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`

	// Only populated by proximity queries
	DistanceMeters *float64 `db:"distance_meters" json:"distance_meters,omitempty"`

	Reporter *Contact `db:"-" json:"reporter,omitempty"`
}

// Contact is the minimal reporter info shown next to a case.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (c *RescueCase) IsTerminal() bool {
	return c.Status == CaseStatusResolved || c.Status == CaseStatusCancelled
}

func (c *RescueCase) IsAssigned() bool {
	return c.AssignedVolunteerID != nil && *c.AssignedVolunteerID != ""
}

// AssignedTo reports whether userID is the case's volunteer.
func (c *RescueCase) AssignedTo(userID string) bool {
	return c.IsAssigned() && *c.AssignedVolunteerID == userID
}
