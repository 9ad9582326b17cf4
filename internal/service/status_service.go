package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/metrics"
	"idportal/internal/repository"
)

type StatusCheckRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
	DateOfBirth   string `json:"dateOfBirth" binding:"required"`
}

type StatusCheckResponse struct {
	ApplicationID  string `json:"applicationId"`
	Status         string `json:"status"`
	ApplicantName  string `json:"applicantName"`
	SubmissionDate string `json:"submissionDate"`
	Message        string `json:"message"`
}

// StatusService answers public status lookups keyed by application ID and
// date of birth.
type StatusService interface {
	CheckStatus(ctx context.Context, req StatusCheckRequest) (*StatusCheckResponse, error)
}

type statusService struct {
	repo    repository.ApplicationRepository
	loc     *time.Location
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewStatusService(repo repository.ApplicationRepository, loc *time.Location, logger *slog.Logger, m *metrics.Metrics) StatusService {
	return &statusService{
		repo:    repo,
		loc:     loc,
		logger:  logger.With("component", "status_service"),
		metrics: m,
	}
}

func (s *statusService) CheckStatus(ctx context.Context, req StatusCheckRequest) (*StatusCheckResponse, error) {
	id := strings.TrimSpace(req.ApplicationID)

	dob, err := datenorm.ParseDay(req.DateOfBirth, s.loc)
	if err != nil {
		s.metrics.IncStatusLookup("malformed")
		return nil, ErrMalformedDOB
	}
	if id == "" {
		s.metrics.IncStatusLookup("not_found")
		return nil, ErrStatusNotFound
	}

	app, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.IncStatusLookup("not_found")
		return nil, ErrStatusNotFound
	}
	if err != nil {
		s.metrics.IncStatusLookup("error")
		s.logger.ErrorContext(ctx, "status lookup failed", "application_id", id, "error", err)
		return nil, err
	}

	if datenorm.Day(app.DateOfBirth, s.loc) != datenorm.Day(dob, s.loc) {
		s.metrics.IncStatusLookup("mismatch")
		s.logger.InfoContext(ctx, "status lookup date of birth mismatch", "application_id", id)
		return nil, ErrStatusNotFound
	}

	s.metrics.IncStatusLookup("found")
	return &StatusCheckResponse{
		ApplicationID:  app.ID,
		Status:         string(app.Status),
		ApplicantName:  app.EmployeeName,
		SubmissionDate: app.SubmissionDate.In(s.loc).Format(SubmissionDateLayout),
		Message:        "Status retrieved successfully.",
	}, nil
}
