package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rescuelink/api/internal/model"
)

var (
	ErrDonationNotFound  = errors.New("donation request not found")
	ErrDonationUnchanged = errors.New("donation request not updated")
)

type DonationRepository interface {
	Create(ctx context.Context, donation *model.DonationRequest) error
	ByID(ctx context.Context, id string) (*model.DonationRequest, error)
	List(ctx context.Context, status string, limit, offset int) ([]*model.DonationRequest, error)
	UpdateStatus(ctx context.Context, id, ownerID, status string) (*model.DonationRequest, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type donationRepository struct {
	db *sqlx.DB
}

func NewDonationRepository(db *sqlx.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *model.DonationRequest) error {
	query := `INSERT INTO donation_requests (id, user_id, title, description, category, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		donation.ID,
		donation.UserID,
		donation.Title,
		donation.Description,
		donation.Category,
		donation.Status,
		donation.CreatedAt,
		donation.UpdatedAt,
	)

	return classify(err)
}

func (r *donationRepository) ByID(ctx context.Context, id string) (*model.DonationRequest, error) {
	donation := &model.DonationRequest{}
	query := `SELECT * FROM donation_requests WHERE id = $1`

	err := r.db.GetContext(ctx, donation, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	return donation, nil
}

// List returns requests newest first. An empty status lists every status.
func (r *donationRepository) List(ctx context.Context, status string, limit, offset int) ([]*model.DonationRequest, error) {
	donations := []*model.DonationRequest{}
	query := `SELECT * FROM donation_requests
	          WHERE ($1::text IS NULL OR status = $1::text)
	          ORDER BY created_at DESC, id ASC
	          LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &donations, query, nullable(status), limit, offset)
	if err != nil {
		return nil, err
	}

	return donations, nil
}

// UpdateStatus closes an open request on behalf of its owner.
// Returns ErrDonationUnchanged when the guard matched no row.
func (r *donationRepository) UpdateStatus(ctx context.Context, id, ownerID, status string) (*model.DonationRequest, error) {
	donation := &model.DonationRequest{}
	query := `UPDATE donation_requests
	          SET status = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND status = $5
	          RETURNING *`

	err := r.db.GetContext(ctx, donation, query, status, time.Now(), id, ownerID, model.DonationStatusPending)
	if err == sql.ErrNoRows {
		return nil, ErrDonationUnchanged
	}
	if err != nil {
		return nil, classify(err)
	}

	return donation, nil
}

func (r *donationRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM donation_requests WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return classify(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDonationUnchanged
	}

	return nil
}
