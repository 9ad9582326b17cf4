package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/model"
	"idportal/internal/repository"
	"idportal/internal/storage"
	"idportal/internal/validation"
)

// SearchLimit caps name prefix searches.
const SearchLimit = 20

// --- DTOs ---

type EmployeeListFilter struct {
	Status     string
	Department string
	Station    string
	Page       int
	Limit      int
}

type EmployeeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required"`
	Status string   `json:"status" binding:"required"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type DeleteFileRequest struct {
	Path string `json:"path" binding:"required"`
}

type FileUploadResponse struct {
	URL string `json:"url"`
}

type EmployeeFamilyResponse struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	DOB          string `json:"dob"`
}

type EmployeeResponse struct {
	ID                   string                   `json:"id"`
	EmpNo                string                   `json:"empNo"`
	EmpName              string                   `json:"empName"`
	Designation          string                   `json:"designation"`
	Department           string                   `json:"department"`
	Station              string                   `json:"station"`
	DOB                  string                   `json:"dob"`
	Address              string                   `json:"address"`
	RlyNumber            string                   `json:"rlyNumber,omitempty"`
	MobileNumber         string                   `json:"mobileNumber"`
	EmergencyContactName string                   `json:"emergencyContactName"`
	EmergencyContactNo   string                   `json:"emergencyContactNo"`
	DeptSlNo             string                   `json:"deptSlNo,omitempty"`
	QRCode               string                   `json:"qrCode,omitempty"`
	PhotoURL             string                   `json:"photoURL,omitempty"`
	SignatureURL         string                   `json:"signatureURL,omitempty"`
	ApplicationDate      string                   `json:"applicationDate"`
	Status               string                   `json:"status"`
	BloodGroup           string                   `json:"bloodGroup,omitempty"`
	IdentificationMarks  []string                 `json:"identificationMarks"`
	FamilyMembers        []EmployeeFamilyResponse `json:"familyMembers"`
	CreatedAt            string                   `json:"createdAt"`
	UpdatedAt            string                   `json:"updatedAt"`
}

// --- Interface ---

type EmployeeService interface {
	CreateEmployee(ctx context.Context, in validation.EmployeeInput, actor Actor) (*EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, in validation.EmployeeInput, actor Actor) (*EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string, actor Actor) error
	ListEmployees(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error)
	SearchEmployees(ctx context.Context, term string) ([]EmployeeResponse, error)
	EmployeesByDateRange(ctx context.Context, start, end string) ([]EmployeeResponse, error)
	ExportEmployees(ctx context.Context) ([]EmployeeResponse, error)
	UpdateEmployeeStatus(ctx context.Context, id, status string, actor Actor) error
	BulkUpdateStatus(ctx context.Context, ids []string, status string, actor Actor) error
	BulkDelete(ctx context.Context, ids []string, actor Actor) error
	UploadFile(ctx context.Context, id, slot string, file UploadedFile, actor Actor) (*FileUploadResponse, error)
	DeleteFile(ctx context.Context, path string, actor Actor) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	stats     repository.StatisticsRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	files     storage.FileStorage
	baseURL   string
	validator *validation.Validator
	logger    *slog.Logger
}

// NewEmployeeService wires the employee backend. baseURL is the public
// prefix of stored file URLs, used to map a URL back to its storage key.
func NewEmployeeService(
	repo repository.EmployeeRepository,
	stats repository.StatisticsRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	files storage.FileStorage,
	baseURL string,
	validator *validation.Validator,
	logger *slog.Logger,
) EmployeeService {
	return &employeeService{
		repo:      repo,
		stats:     stats,
		audit:     audit,
		txManager: txManager,
		files:     files,
		baseURL:   baseURL,
		validator: validator,
		logger:    logger.With("component", "employee_service"),
	}
}

// --- Implementation ---

func (s *employeeService) CreateEmployee(ctx context.Context, in validation.EmployeeInput, actor Actor) (*EmployeeResponse, error) {
	emp, err := s.validator.Employee(in)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.Create(txCtx, emp); err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionCreateEmployee, emp.ID, emp.EmpName, map[string]interface{}{
			"emp_no": emp.EmpNo,
			"status": emp.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.recount(ctx)
	resp := s.toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := s.toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, in validation.EmployeeInput, actor Actor) (*EmployeeResponse, error) {
	emp, err := s.validator.Employee(in)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}

		emp.ID = id
		emp.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(txCtx, emp); err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionUpdateEmployee, id, emp.EmpName, map[string]interface{}{
			"old_status": existing.Status,
			"new_status": emp.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.recount(ctx)
	resp := s.toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string, actor Actor) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionDeleteEmployee, id, existing.EmpName, map[string]interface{}{
			"emp_no": existing.EmpNo,
		})
	})
	if err != nil {
		return err
	}

	s.recount(ctx)
	return nil
}

func (s *employeeService) ListEmployees(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" {
		if err := s.validator.EmployeeStatus(filter.Status); err != nil {
			return nil, 0, err
		}
	}

	emps, total, err := s.repo.List(ctx, model.EmployeeFilter{
		Status:     filter.Status,
		Department: filter.Department,
		Station:    filter.Station,
	}, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	return s.toEmployeeResponses(emps), total, nil
}

func (s *employeeService) SearchEmployees(ctx context.Context, term string) ([]EmployeeResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []EmployeeResponse{}, nil
	}
	emps, err := s.repo.SearchByName(ctx, term, SearchLimit)
	if err != nil {
		return nil, err
	}
	return s.toEmployeeResponses(emps), nil
}

func (s *employeeService) EmployeesByDateRange(ctx context.Context, start, end string) ([]EmployeeResponse, error) {
	from, to, err := s.validator.DateRange(start, end)
	if err != nil {
		return nil, err
	}
	emps, err := s.repo.ListByApplicationDate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.toEmployeeResponses(emps), nil
}

func (s *employeeService) ExportEmployees(ctx context.Context) ([]EmployeeResponse, error) {
	emps, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return s.toEmployeeResponses(emps), nil
}

func (s *employeeService) UpdateEmployeeStatus(ctx context.Context, id, status string, actor Actor) error {
	if err := s.validator.EmployeeStatus(status); err != nil {
		return err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := s.repo.UpdateStatus(txCtx, id, model.EmployeeStatus(status))
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionUpdateEmployeeStatus, id, "", map[string]interface{}{
			"status": status,
		})
	})
	if err != nil {
		return err
	}

	s.recount(ctx)
	return nil
}

func (s *employeeService) BulkUpdateStatus(ctx context.Context, ids []string, status string, actor Actor) error {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	if err := s.validator.EmployeeStatus(status); err != nil {
		return err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := s.repo.BulkUpdateStatus(txCtx, ids, model.EmployeeStatus(status))
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionBulkUpdateStatus, strings.Join(ids, ","), "", map[string]interface{}{
			"count":  len(ids),
			"status": status,
		})
	})
	if err != nil {
		return err
	}

	s.recount(ctx)
	return nil
}

func (s *employeeService) BulkDelete(ctx context.Context, ids []string, actor Actor) error {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := s.repo.BulkDelete(txCtx, ids)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionBulkDeleteEmployees, strings.Join(ids, ","), "", map[string]interface{}{
			"count": len(ids),
		})
	})
	if err != nil {
		return err
	}

	s.recount(ctx)
	return nil
}

// UploadFile stores a photo or signature and points the employee record at
// it. The object is removed again if the record cannot be updated.
func (s *employeeService) UploadFile(ctx context.Context, id, slot string, file UploadedFile, actor Actor) (*FileUploadResponse, error) {
	if slot != model.EmployeeSlotPhoto && slot != model.EmployeeSlotSignature {
		return nil, ErrInvalidFileSlot
	}
	if err := s.validator.CheckFile(slot, validation.FileMeta{Name: file.Name, Type: file.ContentType, Size: file.Size}); err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	key := fmt.Sprintf("employees/%s/%s-%s", id, slot, storage.SafeName(file.Name))
	url, err := s.files.Put(ctx, key, rc, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store employee %s: %w", slot, err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SetFileURL(txCtx, id, slot, url); err != nil {
			return err
		}
		return s.logAction(txCtx, actor, model.ActionUploadFile, id, emp.EmpName, map[string]interface{}{
			"slot": slot,
			"key":  key,
		})
	})
	if err != nil {
		if delErr := s.files.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned employee file", "key", key, "error", delErr)
		}
		return nil, err
	}

	return &FileUploadResponse{URL: url}, nil
}

// DeleteFile removes a stored object given its key or public URL.
func (s *employeeService) DeleteFile(ctx context.Context, path string, actor Actor) error {
	key, err := storage.KeyFromURL(s.baseURL, path)
	if err != nil {
		return ErrInvalidFilePath
	}

	err = s.files.Delete(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrFileNotFound
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return ErrInvalidFilePath
	}
	if err != nil {
		return err
	}

	if err := s.logAction(ctx, actor, model.ActionDeleteFile, key, "", nil); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit log", "key", key, "error", err)
	}
	return nil
}

// recount refreshes the statistics summary. The mutation has already been
// committed, so a failure here is logged and not returned.
func (s *employeeService) recount(ctx context.Context) {
	if _, err := s.stats.Recount(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to recount statistics", "error", err)
	}
}

func (s *employeeService) logAction(ctx context.Context, actor Actor, action, entityID, entityName string, details map[string]interface{}) error {
	var payload []byte
	if details != nil {
		payload, _ = json.Marshal(details)
	}
	if err := s.audit.Log(ctx, &model.AuditLog{
		UserID:     actor.UserID,
		UserEmail:  actor.Email,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *employeeService) toEmployeeResponses(emps []model.Employee) []EmployeeResponse {
	result := make([]EmployeeResponse, 0, len(emps))
	for i := range emps {
		result = append(result, s.toEmployeeResponse(&emps[i]))
	}
	return result
}

func (s *employeeService) toEmployeeResponse(emp *model.Employee) EmployeeResponse {
	loc := s.validator.Location()

	members := make([]EmployeeFamilyResponse, 0, len(emp.FamilyMembers))
	for _, fm := range emp.FamilyMembers {
		members = append(members, EmployeeFamilyResponse{
			Name:         fm.Name,
			Relationship: fm.Relationship,
			DOB:          datenorm.Day(fm.DOB, loc),
		})
	}
	marks := emp.IdentificationMarks
	if marks == nil {
		marks = []string{}
	}

	return EmployeeResponse{
		ID:                   emp.ID,
		EmpNo:                emp.EmpNo,
		EmpName:              emp.EmpName,
		Designation:          emp.Designation,
		Department:           emp.Department,
		Station:              emp.Station,
		DOB:                  datenorm.Day(emp.DOB, loc),
		Address:              emp.Address,
		RlyNumber:            emp.RlyNumber,
		MobileNumber:         emp.MobileNumber,
		EmergencyContactName: emp.EmergencyContactName,
		EmergencyContactNo:   emp.EmergencyContactNo,
		DeptSlNo:             emp.DeptSlNo,
		QRCode:               emp.QRCode,
		PhotoURL:             emp.PhotoURL,
		SignatureURL:         emp.SignatureURL,
		ApplicationDate:      emp.ApplicationDate.UTC().Format(time.RFC3339),
		Status:               string(emp.Status),
		BloodGroup:           emp.BloodGroup,
		IdentificationMarks:  marks,
		FamilyMembers:        members,
		CreatedAt:            emp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            emp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
