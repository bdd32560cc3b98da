package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rescuelink/api/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateLocation(ctx context.Context, id string, latitude, longitude float64) (*model.User, error)
	NearbyVolunteers(ctx context.Context, q NearbyQuery) ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, name, email, password_hash, role, phone_number, address,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	created_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, role, phone_number, address, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.PhoneNumber,
		user.Address,
		user.CreatedAt,
	)
	err = classify(err)
	if errors.Is(err, ErrDuplicate) {
		return ErrDuplicateEmail
	}

	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdateLocation(ctx context.Context, id string, latitude, longitude float64) (*model.User, error) {
	user := &model.User{}
	query := `UPDATE users
	          SET location = ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
	          WHERE id = $3
	          RETURNING ` + userColumns

	err := r.db.GetContext(ctx, user, query, longitude, latitude, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, classify(err)
	}

	return user, nil
}

// NearbyVolunteers lists volunteers with a known location inside the radius, nearest first.
func (r *userRepository) NearbyVolunteers(ctx context.Context, q NearbyQuery) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `,
			ST_Distance(location, ref.point) AS distance_meters
		FROM users
		CROSS JOIN (SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS point) ref
		WHERE role = $3
		  AND location IS NOT NULL
		  AND ST_DWithin(location, ref.point, $4)
		  AND ($5::uuid IS NULL OR id <> $5::uuid)
		ORDER BY distance_meters ASC, id ASC
		LIMIT $6 OFFSET $7`

	users := []*model.User{}
	err := r.db.SelectContext(ctx, &users, query,
		q.Longitude,
		q.Latitude,
		model.RoleVolunteer,
		q.RadiusMeters,
		nullable(q.ExcludeUserID),
		q.Limit,
		q.Offset,
	)
	if err != nil {
		return nil, err
	}

	return users, nil
}
