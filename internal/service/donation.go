package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rescuelink/api/internal/model"
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/validation"
)

type CreateDonationInput struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Category    string `json:"category" validate:"omitempty,max=100"`
}

type ListDonationsInput struct {
	Status string `json:"status" validate:"omitempty,oneof=pending fulfilled cancelled"`
	PageInput
}

type UpdateDonationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=fulfilled cancelled"`
}

type DonationService struct {
	repo repository.DonationRepository
}

func NewDonationService(repo repository.DonationRepository) *DonationService {
	return &DonationService{repo: repo}
}

func (s *DonationService) Create(ctx context.Context, in CreateDonationInput) (*model.DonationRequest, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	fields := validation.Struct(in)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	now := time.Now().UTC()
	donation := &model.DonationRequest{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.DonationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Category != "" {
		donation.Category = &in.Category
	}

	err := s.repo.Create(ctx, donation)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrDuplicateEntry
	case errors.Is(err, repository.ErrInvalidReference):
		return nil, ErrInvalidUserReference
	case err != nil:
		return nil, upstream("Failed to create donation request", err)
	}

	slog.Info("donation request created", "donation_id", donation.ID, "user_id", donation.UserID)
	return donation, nil
}

func (s *DonationService) List(ctx context.Context, in ListDonationsInput) ([]*model.DonationRequest, error) {
	in.Status = strings.TrimSpace(in.Status)
	in.PageInput = in.PageInput.withDefaults()

	fields := validation.Struct(in)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	donations, err := s.repo.List(ctx, in.Status, *in.Limit, *in.Offset)
	if err != nil {
		return nil, upstream("Failed to list donation requests", err)
	}
	return donations, nil
}

func (s *DonationService) ByID(ctx context.Context, id string) (*model.DonationRequest, error) {
	if fe := checkID("id", id); fe != nil {
		return nil, ValidationError([]validation.FieldError{*fe})
	}

	donation, err := s.repo.ByID(ctx, id)
	if errors.Is(err, repository.ErrDonationNotFound) {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, upstream("Failed to load donation request", err)
	}
	return donation, nil
}

// UpdateStatus closes a pending request. Only its owner may do so, and closed requests stay closed.
func (s *DonationService) UpdateStatus(ctx context.Context, id, callerID string, in UpdateDonationStatusInput) (*model.DonationRequest, error) {
	in.Status = strings.TrimSpace(in.Status)

	var fields []validation.FieldError
	if fe := checkID("id", id); fe != nil {
		fields = append(fields, *fe)
	}
	fields = append(fields, validation.Struct(in)...)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, callerID, in.Status)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, repository.ErrDonationUnchanged) {
		return nil, upstream("Failed to update donation request", err)
	}

	current, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, ErrNotDonationOwner
	}
	return nil, ErrDonationClosed
}

func (s *DonationService) Delete(ctx context.Context, id, callerID string) error {
	if fe := checkID("id", id); fe != nil {
		return ValidationError([]validation.FieldError{*fe})
	}

	err := s.repo.Delete(ctx, id, callerID)
	if err == nil {
		slog.Info("donation request deleted", "donation_id", id, "user_id", callerID)
		return nil
	}
	if !errors.Is(err, repository.ErrDonationUnchanged) {
		return upstream("Failed to delete donation request", err)
	}

	if _, err := s.ByID(ctx, id); err != nil {
		return err
	}
	return ErrNotDonationOwner
}
