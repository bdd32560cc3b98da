package model

import (
	"time"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusFulfilled = "fulfilled"
	DonationStatusCancelled = "cancelled"
)

type DonationRequest struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    *string   `db:"category" json:"category"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (d *DonationRequest) IsOpen() bool {
	return d.Status == DonationStatusPending
}
