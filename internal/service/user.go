package service

import (
	"context"
	"errors"

	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/validation"
)

type LocationInput struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	if fe := checkID("id", id); fe != nil {
		return nil, ValidationError([]validation.FieldError{*fe})
	}

	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, upstream("Failed to load user", err)
	}

	return user, nil
}

// UpdateLocation stores where the user can be found for volunteer matching.
func (s *UserService) UpdateLocation(ctx context.Context, id string, in LocationInput) (*model.User, error) {
	fields := validation.Struct(in)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	user, err := s.userRepository.UpdateLocation(ctx, id, *in.Latitude, *in.Longitude)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, upstream("Failed to update location", err)
	}

	return user, nil
}

// NearbyVolunteers lists volunteers who shared a location inside the radius, nearest first.
func (s *UserService) NearbyVolunteers(ctx context.Context, in NearbyInput) ([]*model.User, error) {
	q, err := nearbyQuery(in)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepository.NearbyVolunteers(ctx, q)
	if err != nil {
		return nil, upstream("Failed to search nearby volunteers", err)
	}

	return users, nil
}
