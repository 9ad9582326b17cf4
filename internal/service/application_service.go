package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/metrics"
	"idportal/internal/model"
	"idportal/internal/repository"
	"idportal/internal/storage"
	"idportal/internal/validation"

	"github.com/google/uuid"
)

// SubmissionDateLayout is how submission times are shown to applicants.
const SubmissionDateLayout = "02 Jan 2006, 3:04 PM"

// --- DTOs ---

// UploadedFile is one multipart file handed over by the transport layer.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type SubmitApplicationRequest struct {
	Fields        map[string]string
	FamilyMembers []validation.FamilyMemberInput
	Files         map[string]UploadedFile
}

type SubmitApplicationResponse struct {
	ApplicationID string `json:"applicationId"`
	Message       string `json:"message"`
}

type ApplicationFilter struct {
	Status string // pending, approved, rejected or empty for all
	Page   int
	Limit  int
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type FamilyMemberResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	BloodGroup          string `json:"bloodGroup"`
	Relationship        string `json:"relationship"`
	DOB                 string `json:"dob"`
	IdentificationMarks string `json:"identificationMarks"`
}

type ApplicationResponse struct {
	ApplicationID          string                 `json:"applicationId"`
	ApplicantType          string                 `json:"applicantType"`
	EmployeeName           string                 `json:"employeeName"`
	Designation            string                 `json:"designation"`
	EmployeeNo             string                 `json:"employeeNo,omitempty"`
	RUIDNo                 string                 `json:"ruidNo,omitempty"`
	DateOfBirth            string                 `json:"dateOfBirth"`
	Department             string                 `json:"department"`
	Station                string                 `json:"station"`
	BillUnit               string                 `json:"billUnit"`
	ResidentialAddress     string                 `json:"residentialAddress"`
	RlyContactNumber       string                 `json:"rlyContactNumber,omitempty"`
	MobileNumber           string                 `json:"mobileNumber"`
	ReasonForApplication   string                 `json:"reasonForApplication"`
	EmergencyContactName   string                 `json:"emergencyContactName"`
	EmergencyContactNumber string                 `json:"emergencyContactNumber"`
	FamilyMembers          []FamilyMemberResponse `json:"familyMembers"`
	Documents              model.Documents        `json:"documents"`
	Status                 string                 `json:"status"`
	SubmissionDate         string                 `json:"submissionDate"`
	SubmissionDateDisplay  string                 `json:"submissionDateDisplay"`
}

type UpdateApplicationStatusResponse struct {
	Application ApplicationResponse `json:"application"`
	Message     string              `json:"message"`
}

// --- Interface ---

type ApplicationService interface {
	Submit(ctx context.Context, req SubmitApplicationRequest) (*SubmitApplicationResponse, error)
	GetApplication(ctx context.Context, id string) (*ApplicationResponse, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]ApplicationResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, status string, actor Actor) (*UpdateApplicationStatusResponse, error)
}

type applicationService struct {
	repo      repository.ApplicationRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	files     storage.FileStorage
	validator *validation.Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	files storage.FileStorage,
	validator *validation.Validator,
	logger *slog.Logger,
	m *metrics.Metrics,
) ApplicationService {
	return &applicationService{
		repo:      repo,
		audit:     audit,
		txManager: txManager,
		files:     files,
		validator: validator,
		logger:    logger.With("component", "application_service"),
		metrics:   m,
	}
}

// --- Implementation ---

func (s *applicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*SubmitApplicationResponse, error) {
	started := time.Now()

	metas := make(map[string]validation.FileMeta, len(req.Files))
	for slot, f := range req.Files {
		metas[slot] = validation.FileMeta{Name: f.Name, Type: f.ContentType, Size: f.Size}
	}

	validated, err := s.validator.Application(validation.ApplicationInput{
		Fields:        req.Fields,
		FamilyMembers: req.FamilyMembers,
		Files:         metas,
	})
	if err != nil {
		s.metrics.IncValidationFailure()
		return nil, err
	}

	app := validated.Application
	uploadID := uuid.NewString()
	var stored []string

	for _, slot := range slices.Sorted(maps.Keys(validated.Files)) {
		url, key, uploadErr := s.upload(ctx, uploadID, slot, req.Files[slot])
		if uploadErr != nil {
			s.logger.ErrorContext(ctx, "failed to store application document", "slot", slot, "error", uploadErr)
			s.cleanup(ctx, stored)
			return nil, ErrSubmissionFailed
		}
		stored = append(stored, key)
		setDocument(&app.Documents, slot, url)
	}

	id, err := s.repo.Create(ctx, &app)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create application", "error", err)
		s.cleanup(ctx, stored)
		return nil, ErrSubmissionFailed
	}

	s.metrics.IncSubmitted(string(app.ApplicantType))
	s.metrics.ObserveSubmission(time.Since(started).Seconds())
	s.logger.InfoContext(ctx, "application submitted", "application_id", id, "applicant_type", app.ApplicantType)

	return &SubmitApplicationResponse{
		ApplicationID: id,
		Message:       fmt.Sprintf("Application submitted successfully. Your application ID is %s.", id),
	}, nil
}

func (s *applicationService) upload(ctx context.Context, uploadID, slot string, f UploadedFile) (string, string, error) {
	if f.Open == nil {
		return "", "", fmt.Errorf("file for slot %s has no content", slot)
	}
	rc, err := f.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	key := fmt.Sprintf("applications/%s/%s-%s", uploadID, slot, storage.SafeName(f.Name))
	url, err := s.files.Put(ctx, key, rc, f.Size, f.ContentType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// cleanup removes documents of a submission that did not complete. Failures
// are logged only; the caller already reports the original error.
func (s *applicationService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.files.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to remove orphaned document", "key", key, "error", err)
		}
	}
}

func setDocument(docs *model.Documents, slot, url string) {
	switch slot {
	case model.SlotPhoto:
		docs.PhotoURL = url
	case model.SlotSignature:
		docs.SignatureURL = url
	case model.SlotHindiName:
		docs.HindiNameURL = url
	case model.SlotHindiDesignation:
		docs.HindiDesignationURL = url
	}
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (*ApplicationResponse, error) {
	app, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := s.toApplicationResponse(app)
	return &resp, nil
}

func (s *applicationService) ListApplications(ctx context.Context, filter ApplicationFilter) ([]ApplicationResponse, int64, error) {
	if filter.Status != "" && !model.ApplicationStatus(filter.Status).Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	apps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	if filter.Status != "" {
		apps = slices.DeleteFunc(apps, func(a model.Application) bool {
			return string(a.Status) != filter.Status
		})
	}

	total := int64(len(apps))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(apps) {
		return []ApplicationResponse{}, total, nil
	}
	apps = apps[offset:min(offset+filter.Limit, len(apps))]

	result := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, s.toApplicationResponse(&apps[i]))
	}
	return result, total, nil
}

// UpdateStatus moves a pending application to approved or rejected. Setting
// the status an application already has succeeds without a write.
func (s *applicationService) UpdateStatus(ctx context.Context, id string, status string, actor Actor) (*UpdateApplicationStatusResponse, error) {
	next := model.ApplicationStatus(status)
	if next != model.StatusApproved && next != model.StatusRejected {
		return nil, ErrInvalidStatus
	}

	var app *model.Application
	changed := false

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		app, err = s.repo.GetByID(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrApplicationNotFound
		}
		if err != nil {
			return err
		}

		if app.Status == next {
			return nil
		}
		if app.Status != model.StatusPending {
			return fmt.Errorf("%w: application is already %s", ErrInvalidTransition, app.Status)
		}

		if err := s.repo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}

		action := model.ActionApproveApplication
		if next == model.StatusRejected {
			action = model.ActionRejectApplication
		}
		details, _ := json.Marshal(map[string]interface{}{
			"from": app.Status,
			"to":   next,
		})
		if err := s.audit.Log(txCtx, &model.AuditLog{
			UserID:     actor.UserID,
			UserEmail:  actor.Email,
			Action:     action,
			EntityID:   id,
			EntityName: app.EmployeeName,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		app.Status = next
		changed = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrApplicationNotFound) && !errors.Is(err, ErrInvalidTransition) {
			s.logger.ErrorContext(ctx, "failed to update application status", "application_id", id, "status", status, "error", err)
		}
		return nil, err
	}

	if changed {
		s.metrics.IncStatusUpdate(status)
		s.logger.InfoContext(ctx, "application status updated", "application_id", id, "status", status, "actor", actor.Email)
	}

	return &UpdateApplicationStatusResponse{
		Application: s.toApplicationResponse(app),
		Message:     fmt.Sprintf("Application status updated to %s successfully.", status),
	}, nil
}

func (s *applicationService) toApplicationResponse(app *model.Application) ApplicationResponse {
	loc := s.validator.Location()

	members := make([]FamilyMemberResponse, 0, len(app.FamilyMembers))
	for _, fm := range app.FamilyMembers {
		members = append(members, FamilyMemberResponse{
			ID:                  fm.ID,
			Name:                fm.Name,
			BloodGroup:          fm.BloodGroup,
			Relationship:        fm.Relationship,
			DOB:                 datenorm.Day(fm.DOB, loc),
			IdentificationMarks: fm.IdentificationMarks,
		})
	}

	return ApplicationResponse{
		ApplicationID:          app.ID,
		ApplicantType:          string(app.ApplicantType),
		EmployeeName:           app.EmployeeName,
		Designation:            app.Designation,
		EmployeeNo:             app.EmployeeNo,
		RUIDNo:                 app.RUIDNo,
		DateOfBirth:            datenorm.Day(app.DateOfBirth, loc),
		Department:             app.Department,
		Station:                app.Station,
		BillUnit:               app.BillUnit,
		ResidentialAddress:     app.ResidentialAddress,
		RlyContactNumber:       app.RlyContactNumber,
		MobileNumber:           app.MobileNumber,
		ReasonForApplication:   app.ReasonForApplication,
		EmergencyContactName:   app.EmergencyContactName,
		EmergencyContactNumber: app.EmergencyContactNumber,
		FamilyMembers:          members,
		Documents:              app.Documents,
		Status:                 string(app.Status),
		SubmissionDate:         app.SubmissionDate.UTC().Format(time.RFC3339),
		SubmissionDateDisplay:  app.SubmissionDate.In(loc).Format(SubmissionDateLayout),
	}
}
