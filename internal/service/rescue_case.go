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

type CreateCaseInput struct {
	Title          string   `json:"title" validate:"required,min=3,max=255"`
	Description    string   `json:"description" validate:"required,min=10,max=2000"`
	ImageURL       string   `json:"image_url" validate:"omitempty,max=500,httpurl"`
	Latitude       *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	ReporterUserID string   `json:"reporter_user_id" validate:"required,uuid"`
}

type UpdateCaseStatusInput struct {
	Status string `json:"status" validate:"required,oneof=assigned resolved cancelled"`
}

type RescueCaseService struct {
	repo repository.RescueCaseRepository
}

func NewRescueCaseService(repo repository.RescueCaseRepository) *RescueCaseService {
	return &RescueCaseService{repo: repo}
}

// Create validates every field, then stores a pending case and returns it with reporter contact.
func (s *RescueCaseService) Create(ctx context.Context, in CreateCaseInput) (*model.RescueCase, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ReporterUserID = strings.TrimSpace(in.ReporterUserID)

	fields := validation.Struct(in)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	now := time.Now().UTC()
	rescueCase := &model.RescueCase{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Description:    in.Description,
		Latitude:       *in.Latitude,
		Longitude:      *in.Longitude,
		ReporterUserID: in.ReporterUserID,
		Status:         model.CaseStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.ImageURL != "" {
		rescueCase.ImageURL = &in.ImageURL
	}

	created, err := s.repo.Create(ctx, rescueCase)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrDuplicateEntry
	case errors.Is(err, repository.ErrInvalidReference):
		return nil, ErrInvalidUserReference
	case err != nil:
		return nil, upstream("Failed to create rescue case", err)
	}

	slog.Info("rescue case created", "case_id", created.ID, "reporter_id", created.ReporterUserID)
	return created, nil
}

func (s *RescueCaseService) ByID(ctx context.Context, caseID string) (*model.RescueCase, error) {
	if fe := checkID("id", caseID); fe != nil {
		return nil, ValidationError([]validation.FieldError{*fe})
	}

	rescueCase, err := s.repo.ByID(ctx, caseID)
	if errors.Is(err, repository.ErrRescueCaseNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, upstream("Failed to load rescue case", err)
	}

	return rescueCase, nil
}

// Nearby lists pending cases around a point, nearest first, skipping the caller's own reports.
func (s *RescueCaseService) Nearby(ctx context.Context, in NearbyInput) ([]*model.RescueCase, error) {
	q, err := nearbyQuery(in)
	if err != nil {
		return nil, err
	}

	cases, err := s.repo.NearbyPending(ctx, q)
	if err != nil {
		return nil, upstream("Failed to search nearby rescue cases", err)
	}

	return cases, nil
}

// Assign claims a case for a volunteer in one guarded update.
// When the guard rejects, the case is re-read only to explain why.
func (s *RescueCaseService) Assign(ctx context.Context, caseID, volunteerID string) (*model.RescueCase, error) {
	if fields := idFields(caseID, volunteerID); len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	assigned, err := s.repo.Assign(ctx, caseID, volunteerID)
	if err == nil {
		slog.Info("rescue case assigned", "case_id", caseID, "volunteer_id", volunteerID)
		return assigned, nil
	}
	if errors.Is(err, repository.ErrInvalidReference) {
		return nil, ErrInvalidUserReference
	}
	if !errors.Is(err, repository.ErrRescueCaseUnchanged) {
		return nil, upstream("Failed to assign rescue case", err)
	}

	current, err := s.repo.ByID(ctx, caseID)
	if errors.Is(err, repository.ErrRescueCaseNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, upstream("Failed to load rescue case", err)
	}

	switch {
	case current.IsTerminal():
		return nil, ErrCaseClosed
	case current.IsAssigned():
		return nil, ErrCaseAlreadyAssigned
	case current.ReporterUserID == volunteerID:
		return nil, ErrOwnCase
	}
	// Lost a race with a concurrent transition.
	return nil, ErrCaseAlreadyAssigned
}

// UpdateStatus lets the assigned volunteer move a case on from assigned.
func (s *RescueCaseService) UpdateStatus(ctx context.Context, caseID, callerID string, in UpdateCaseStatusInput) (*model.RescueCase, error) {
	in.Status = strings.TrimSpace(in.Status)

	fields := idFields(caseID, callerID)
	fields = append(fields, validation.Struct(in)...)
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	updated, err := s.repo.UpdateStatus(ctx, caseID, callerID, in.Status)
	if err == nil {
		slog.Info("rescue case status updated", "case_id", caseID, "status", in.Status, "volunteer_id", callerID)
		return updated, nil
	}
	if !errors.Is(err, repository.ErrRescueCaseUnchanged) {
		return nil, upstream("Failed to update rescue case status", err)
	}

	current, err := s.repo.ByID(ctx, caseID)
	if errors.Is(err, repository.ErrRescueCaseNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, upstream("Failed to load rescue case", err)
	}

	if !current.AssignedTo(callerID) {
		return nil, ErrNotAssignedVolunteer
	}
	return nil, ErrCaseClosed
}

// Reported lists cases the user reported, newest first.
func (s *RescueCaseService) Reported(ctx context.Context, userID string, in PageInput) ([]*model.RescueCase, error) {
	limit, offset, err := page(in)
	if err != nil {
		return nil, err
	}

	cases, err := s.repo.ByReporter(ctx, userID, limit, offset)
	if err != nil {
		return nil, upstream("Failed to list reported cases", err)
	}
	return cases, nil
}

// Assigned lists cases the user has claimed, newest first.
func (s *RescueCaseService) Assigned(ctx context.Context, userID string, in PageInput) ([]*model.RescueCase, error) {
	limit, offset, err := page(in)
	if err != nil {
		return nil, err
	}

	cases, err := s.repo.ByVolunteer(ctx, userID, limit, offset)
	if err != nil {
		return nil, upstream("Failed to list assigned cases", err)
	}
	return cases, nil
}

func idFields(caseID, userID string) []validation.FieldError {
	var fields []validation.FieldError
	if fe := checkID("id", caseID); fe != nil {
		fields = append(fields, *fe)
	}
	if fe := checkID("user_id", userID); fe != nil {
		fields = append(fields, *fe)
	}
	return fields
}
