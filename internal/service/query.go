package service

import (
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/validation"
)

const (
	DefaultRadiusMeters = 5000
	DefaultPageLimit    = 20
)

// NearbyInput is a proximity search request. Nil optionals take their defaults.
type NearbyInput struct {
	Latitude      *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	RadiusMeters  *float64 `json:"radius" validate:"required,gte=100,lte=100000"`
	Limit         *int     `json:"limit" validate:"required,gte=1,lte=100"`
	Offset        *int     `json:"offset" validate:"required,gte=0"`
	ExcludeUserID string   `json:"-" validate:"omitempty,uuid"`
}

// PageInput is limit/offset pagination. Nil values take their defaults.
type PageInput struct {
	Limit  *int `json:"limit" validate:"required,gte=1,lte=100"`
	Offset *int `json:"offset" validate:"required,gte=0"`
}

func (p PageInput) withDefaults() PageInput {
	if p.Limit == nil {
		p.Limit = ptr(DefaultPageLimit)
	}
	if p.Offset == nil {
		p.Offset = ptr(0)
	}
	return p
}

// nearbyQuery applies defaults, validates every field and builds the store query.
func nearbyQuery(in NearbyInput) (repository.NearbyQuery, error) {
	if in.RadiusMeters == nil {
		in.RadiusMeters = ptr(float64(DefaultRadiusMeters))
	}
	page := PageInput{Limit: in.Limit, Offset: in.Offset}.withDefaults()
	in.Limit, in.Offset = page.Limit, page.Offset

	fields := validation.Struct(in)
	if len(fields) > 0 {
		return repository.NearbyQuery{}, ValidationError(fields)
	}

	return repository.NearbyQuery{
		Latitude:      *in.Latitude,
		Longitude:     *in.Longitude,
		RadiusMeters:  *in.RadiusMeters,
		ExcludeUserID: in.ExcludeUserID,
		Limit:         *in.Limit,
		Offset:        *in.Offset,
	}, nil
}

// page applies defaults and validates pagination.
func page(in PageInput) (limit, offset int, err error) {
	in = in.withDefaults()

	fields := validation.Struct(in)
	if len(fields) > 0 {
		return 0, 0, ValidationError(fields)
	}
	return *in.Limit, *in.Offset, nil
}

// checkID validates a path identifier.
func checkID(field, id string) *validation.FieldError {
	return validation.Var(field, id, "required,uuid")
}

func ptr[T any](v T) *T {
	return &v
}
