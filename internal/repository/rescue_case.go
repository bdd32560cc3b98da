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
	ErrRescueCaseNotFound = errors.New("rescue case not found")
	// ErrRescueCaseUnchanged means a guarded update matched no row.
	ErrRescueCaseUnchanged = errors.New("rescue case not updated")
)

// NearbyQuery is a radius search around a point. ExcludeUserID may be empty.
type NearbyQuery struct {
	Latitude      float64
	Longitude     float64
	RadiusMeters  float64
	ExcludeUserID string
	Limit         int
	Offset        int
}

type RescueCaseRepository interface {
	Create(ctx context.Context, rescueCase *model.RescueCase) (*model.RescueCase, error)
	ByID(ctx context.Context, id string) (*model.RescueCase, error)
	NearbyPending(ctx context.Context, q NearbyQuery) ([]*model.RescueCase, error)
	Assign(ctx context.Context, caseID, volunteerID string) (*model.RescueCase, error)
	UpdateStatus(ctx context.Context, caseID, volunteerID, status string) (*model.RescueCase, error)
	ByReporter(ctx context.Context, userID string, limit, offset int) ([]*model.RescueCase, error)
	ByVolunteer(ctx context.Context, userID string, limit, offset int) ([]*model.RescueCase, error)
}

type rescueCaseRepository struct {
	db *sqlx.DB
}

func NewRescueCaseRepository(db *sqlx.DB) RescueCaseRepository {
	return &rescueCaseRepository{db: db}
}

// rescueCaseColumns expects the case aliased as rc and the reporter as u.
const rescueCaseColumns = `
	rc.id, rc.title, rc.description, rc.image_url,
	ST_Y(rc.location::geometry) AS latitude,
	ST_X(rc.location::geometry) AS longitude,
	rc.reporter_user_id, rc.assigned_volunteer_id, rc.status,
	rc.created_at, rc.updated_at,
	u.name AS reporter_name, u.email AS reporter_email, u.phone_number AS reporter_phone_number`

type rescueCaseRow struct {
	model.RescueCase
	ReporterName        sql.NullString `db:"reporter_name"`
	ReporterEmail       sql.NullString `db:"reporter_email"`
	ReporterPhoneNumber sql.NullString `db:"reporter_phone_number"`
}

func (row *rescueCaseRow) toModel() *model.RescueCase {
	c := row.RescueCase
	if row.ReporterName.Valid {
		c.Reporter = &model.Contact{
			ID:          c.ReporterUserID,
			Name:        row.ReporterName.String,
			Email:       row.ReporterEmail.String,
			PhoneNumber: row.ReporterPhoneNumber.String,
		}
	}
	return &c
}

func toModels(rows []rescueCaseRow) []*model.RescueCase {
	cases := make([]*model.RescueCase, 0, len(rows))
	for i := range rows {
		cases = append(cases, rows[i].toModel())
	}
	return cases
}

func (r *rescueCaseRepository) Create(ctx context.Context, rescueCase *model.RescueCase) (*model.RescueCase, error) {
	query := `
		WITH rc AS (
			INSERT INTO rescue_cases (id, title, description, image_url, location, reporter_user_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $9)
			RETURNING *
		)
		SELECT ` + rescueCaseColumns + `
		FROM rc
		LEFT JOIN users u ON u.id = rc.reporter_user_id`

	var row rescueCaseRow
	err := r.db.GetContext(ctx, &row, query,
		rescueCase.ID,
		rescueCase.Title,
		rescueCase.Description,
		rescueCase.ImageURL,
		rescueCase.Longitude,
		rescueCase.Latitude,
		rescueCase.ReporterUserID,
		rescueCase.Status,
		rescueCase.CreatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

func (r *rescueCaseRepository) ByID(ctx context.Context, id string) (*model.RescueCase, error) {
	query := `SELECT ` + rescueCaseColumns + `
		FROM rescue_cases rc
		LEFT JOIN users u ON u.id = rc.reporter_user_id
		WHERE rc.id = $1`

	var row rescueCaseRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRescueCaseNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

// NearbyPending returns unclaimed cases within the radius, nearest first.
// Distances are geodesic (geography type), in meters.
func (r *rescueCaseRepository) NearbyPending(ctx context.Context, q NearbyQuery) ([]*model.RescueCase, error) {
	query := `
		SELECT ` + rescueCaseColumns + `,
			ST_Distance(rc.location, ref.point) AS distance_meters
		FROM rescue_cases rc
		JOIN users u ON u.id = rc.reporter_user_id
		CROSS JOIN (SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS point) ref
		WHERE rc.status = $3
		  AND ST_DWithin(rc.location, ref.point, $4)
		  AND ($5::uuid IS NULL OR rc.reporter_user_id <> $5::uuid)
		ORDER BY distance_meters ASC, rc.id ASC
		LIMIT $6 OFFSET $7`

	var rows []rescueCaseRow
	err := r.db.SelectContext(ctx, &rows, query,
		q.Longitude,
		q.Latitude,
		model.CaseStatusPending,
		q.RadiusMeters,
		nullable(q.ExcludeUserID),
		q.Limit,
		q.Offset,
	)
	if err != nil {
		return nil, classify(err)
	}

	return toModels(rows), nil
}

// Assign claims a pending, unassigned case for a volunteer who is not its reporter.
// Returns ErrRescueCaseUnchanged when the guard matched no row.
func (r *rescueCaseRepository) Assign(ctx context.Context, caseID, volunteerID string) (*model.RescueCase, error) {
	query := `
		WITH rc AS (
			UPDATE rescue_cases
			SET assigned_volunteer_id = $1, status = $2, updated_at = $3
			WHERE id = $4
			  AND assigned_volunteer_id IS NULL
			  AND status = $5
			  AND reporter_user_id <> $1
			RETURNING *
		)
		SELECT ` + rescueCaseColumns + `
		FROM rc
		LEFT JOIN users u ON u.id = rc.reporter_user_id`

	var row rescueCaseRow
	err := r.db.GetContext(ctx, &row, query,
		volunteerID,
		model.CaseStatusAssigned,
		time.Now(),
		caseID,
		model.CaseStatusPending,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRescueCaseUnchanged
	}
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

// UpdateStatus moves an assigned case on behalf of its volunteer.
// Returns ErrRescueCaseUnchanged when the guard matched no row.
func (r *rescueCaseRepository) UpdateStatus(ctx context.Context, caseID, volunteerID, status string) (*model.RescueCase, error) {
	query := `
		WITH rc AS (
			UPDATE rescue_cases
			SET status = $1, updated_at = $2
			WHERE id = $3
			  AND assigned_volunteer_id = $4
			  AND status = $5
			RETURNING *
		)
		SELECT ` + rescueCaseColumns + `
		FROM rc
		LEFT JOIN users u ON u.id = rc.reporter_user_id`

	var row rescueCaseRow
	err := r.db.GetContext(ctx, &row, query,
		status,
		time.Now(),
		caseID,
		volunteerID,
		model.CaseStatusAssigned,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRescueCaseUnchanged
	}
	if err != nil {
		return nil, classify(err)
	}

	return row.toModel(), nil
}

func (r *rescueCaseRepository) ByReporter(ctx context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	return r.list(ctx, "rc.reporter_user_id = $1", userID, limit, offset)
}

func (r *rescueCaseRepository) ByVolunteer(ctx context.Context, userID string, limit, offset int) ([]*model.RescueCase, error) {
	return r.list(ctx, "rc.assigned_volunteer_id = $1", userID, limit, offset)
}

func (r *rescueCaseRepository) list(ctx context.Context, where, userID string, limit, offset int) ([]*model.RescueCase, error) {
	query := `SELECT ` + rescueCaseColumns + `
		FROM rescue_cases rc
		LEFT JOIN users u ON u.id = rc.reporter_user_id
		WHERE ` + where + `
		ORDER BY rc.created_at DESC, rc.id ASC
		LIMIT $2 OFFSET $3`

	var rows []rescueCaseRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset)
	if err != nil {
		return nil, classify(err)
	}

	return toModels(rows), nil
}
