package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/metrics"
	"idportal/internal/model"

	"github.com/google/uuid"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) (string, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	// Update replaces the editable fields; createdAt is kept.
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.EmployeeFilter, page, limit int) ([]model.Employee, int64, error)
	SearchByName(ctx context.Context, prefix string, limit int) ([]model.Employee, error)
	ListByApplicationDate(ctx context.Context, from, to time.Time) ([]model.Employee, error)
	All(ctx context.Context) ([]model.Employee, error)
	UpdateStatus(ctx context.Context, id string, status model.EmployeeStatus) error
	SetFileURL(ctx context.Context, id, slot, url string) error
	// BulkUpdateStatus and BulkDelete apply to every ID or to none.
	BulkUpdateStatus(ctx context.Context, ids []string, status model.EmployeeStatus) error
	BulkDelete(ctx context.Context, ids []string) error
}

type employeeRepository struct {
	store   docstore.Store
	norm    *datenorm.Normalizer
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewEmployeeRepository(store docstore.Store, norm *datenorm.Normalizer, logger *slog.Logger, m *metrics.Metrics) EmployeeRepository {
	return &employeeRepository{
		store:   store,
		norm:    norm,
		logger:  logger.With("component", "employee_repository"),
		metrics: m,
		now:     time.Now,
	}
}

func (r *employeeRepository) Create(ctx context.Context, emp *model.Employee) (string, error) {
	now := r.now().UTC()
	emp.ID = uuid.NewString()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	doc := employeeDocument(emp)
	doc["createdAt"] = timestamp(now)
	if err := r.store.Set(ctx, CollectionEmployees, emp.ID, doc); err != nil {
		return "", fmt.Errorf("create employee: %w", err)
	}
	return emp.ID, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	snap, err := r.store.Get(ctx, CollectionEmployees, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	emp, ok := r.fromSnapshot(*snap)
	if !ok {
		return nil, ErrNotFound
	}
	return emp, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	emp.UpdatedAt = r.now().UTC()
	return r.update(ctx, emp.ID, employeeDocument(emp))
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, CollectionEmployees, id); err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter model.EmployeeFilter, page, limit int) ([]model.Employee, int64, error) {
	var filters []docstore.Filter
	if filter.Status != "" {
		filters = append(filters, docstore.Where("status", filter.Status))
	}
	if filter.Department != "" {
		filters = append(filters, docstore.Where("department", filter.Department))
	}
	if filter.Station != "" {
		filters = append(filters, docstore.Where("station", filter.Station))
	}

	total, err := r.store.Count(ctx, CollectionEmployees, filters...)
	if err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	snaps, err := r.store.Find(ctx, CollectionEmployees, docstore.Query{
		Filters: filters,
		Newest:  true,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return r.fromSnapshots(snaps), total, nil
}

func (r *employeeRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]model.Employee, error) {
	snaps, err := r.store.Find(ctx, CollectionEmployees, docstore.Query{
		Filters: []docstore.Filter{docstore.HasPrefix("empName", prefix)},
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	emps := r.fromSnapshots(snaps)
	slices.SortStableFunc(emps, func(a, b model.Employee) int {
		return cmp.Compare(a.EmpName, b.EmpName)
	})
	return emps, nil
}

func (r *employeeRepository) ListByApplicationDate(ctx context.Context, from, to time.Time) ([]model.Employee, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Employee, 0, len(all))
	for _, emp := range all {
		if emp.ApplicationDate.Before(from) || emp.ApplicationDate.After(to) {
			continue
		}
		out = append(out, emp)
	}
	slices.SortStableFunc(out, func(a, b model.Employee) int {
		return cmp.Compare(b.ApplicationDate.UnixNano(), a.ApplicationDate.UnixNano())
	})
	return out, nil
}

func (r *employeeRepository) All(ctx context.Context) ([]model.Employee, error) {
	snaps, err := r.store.Find(ctx, CollectionEmployees, docstore.Query{Newest: true})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return r.fromSnapshots(snaps), nil
}

func (r *employeeRepository) UpdateStatus(ctx context.Context, id string, status model.EmployeeStatus) error {
	return r.update(ctx, id, docstore.Document{
		"status":    string(status),
		"updatedAt": timestamp(r.now().UTC()),
	})
}

func (r *employeeRepository) SetFileURL(ctx context.Context, id, slot, url string) error {
	field, err := fileField(slot)
	if err != nil {
		return err
	}
	return r.update(ctx, id, docstore.Document{
		field:       url,
		"updatedAt": timestamp(r.now().UTC()),
	})
}

func (r *employeeRepository) BulkUpdateStatus(ctx context.Context, ids []string, status model.EmployeeStatus) error {
	now := timestamp(r.now().UTC())
	writes := make([]docstore.Write, 0, len(ids))
	for _, id := range ids {
		writes = append(writes, docstore.UpdateWrite(CollectionEmployees, id, docstore.Document{
			"status":    string(status),
			"updatedAt": now,
		}))
	}
	return r.commit(ctx, writes)
}

func (r *employeeRepository) BulkDelete(ctx context.Context, ids []string) error {
	writes := make([]docstore.Write, 0, len(ids))
	for _, id := range ids {
		writes = append(writes, docstore.DeleteWrite(CollectionEmployees, id))
	}
	return r.commit(ctx, writes)
}

func (r *employeeRepository) update(ctx context.Context, id string, fields docstore.Document) error {
	err := r.store.Update(ctx, CollectionEmployees, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update employee %s: %w", id, err)
	}
	return nil
}

func (r *employeeRepository) commit(ctx context.Context, writes []docstore.Write) error {
	if len(writes) == 0 {
		return nil
	}
	err := r.store.Commit(ctx, writes...)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("commit employee batch: %w", err)
	}
	return nil
}

func fileField(slot string) (string, error) {
	switch slot {
	case model.EmployeeSlotPhoto:
		return "photoURL", nil
	case model.EmployeeSlotSignature:
		return "signatureURL", nil
	}
	return "", fmt.Errorf("unknown employee file slot %q", slot)
}

func employeeDocument(emp *model.Employee) docstore.Document {
	members := make([]any, 0, len(emp.FamilyMembers))
	for _, fm := range emp.FamilyMembers {
		members = append(members, map[string]any{
			"name":         fm.Name,
			"relationship": fm.Relationship,
			"dob":          timestamp(fm.DOB),
		})
	}

	return docstore.Document{
		"empNo":                emp.EmpNo,
		"empName":              emp.EmpName,
		"designation":          emp.Designation,
		"department":           emp.Department,
		"station":              emp.Station,
		"dob":                  timestamp(emp.DOB),
		"address":              emp.Address,
		"rlyNumber":            emp.RlyNumber,
		"mobileNumber":         emp.MobileNumber,
		"emergencyContactName": emp.EmergencyContactName,
		"emergencyContactNo":   emp.EmergencyContactNo,
		"deptSlNo":             emp.DeptSlNo,
		"qrCode":               emp.QRCode,
		"photoURL":             emp.PhotoURL,
		"signatureURL":         emp.SignatureURL,
		"applicationDate":      timestamp(emp.ApplicationDate),
		"status":               string(emp.Status),
		"bloodGroup":           emp.BloodGroup,
		"identificationMarks":  toAnyList(emp.IdentificationMarks),
		"familyMembers":        members,
		"updatedAt":            timestamp(emp.UpdatedAt),
	}
}

func (r *employeeRepository) fromSnapshots(snaps []docstore.Snapshot) []model.Employee {
	out := make([]model.Employee, 0, len(snaps))
	for _, snap := range snaps {
		if emp, ok := r.fromSnapshot(snap); ok {
			out = append(out, *emp)
		}
	}
	return out
}

func (r *employeeRepository) fromSnapshot(snap docstore.Snapshot) (*model.Employee, bool) {
	doc := snap.Data

	emp := &model.Employee{
		ID:                   snap.ID,
		EmpNo:                str(doc, "empNo"),
		EmpName:              str(doc, "empName"),
		Designation:          str(doc, "designation"),
		Department:           str(doc, "department"),
		Station:              str(doc, "station"),
		Address:              str(doc, "address"),
		RlyNumber:            str(doc, "rlyNumber"),
		MobileNumber:         str(doc, "mobileNumber"),
		EmergencyContactName: str(doc, "emergencyContactName"),
		EmergencyContactNo:   str(doc, "emergencyContactNo"),
		DeptSlNo:             str(doc, "deptSlNo"),
		QRCode:               str(doc, "qrCode"),
		PhotoURL:             str(doc, "photoURL"),
		SignatureURL:         str(doc, "signatureURL"),
		Status:               model.EmployeeStatus(str(doc, "status")),
		BloodGroup:           str(doc, "bloodGroup"),
		IdentificationMarks:  strList(doc, "identificationMarks"),
		FamilyMembers:        []model.EmployeeFamilyMember{},
	}

	var invalid []string
	if emp.EmpName == "" {
		invalid = append(invalid, "empName")
	}
	if !emp.Status.Valid() {
		invalid = append(invalid, "status")
	}
	var ok bool
	if emp.DOB, ok = r.norm.Normalize(doc["dob"], "dob", snap.ID); !ok {
		invalid = append(invalid, "dob")
	}
	if emp.ApplicationDate, ok = r.norm.Normalize(doc["applicationDate"], "applicationDate", snap.ID); !ok {
		invalid = append(invalid, "applicationDate")
	}
	if len(invalid) > 0 {
		r.logger.Warn("skipping corrupt employee record",
			"employee_id", snap.ID,
			"invalid_fields", strings.Join(invalid, ","),
		)
		r.metrics.IncCorruptRecord(CollectionEmployees)
		return nil, false
	}

	// Audit timestamps fall back to the store's creation time.
	emp.CreatedAt = snap.CreatedAt
	if t, ok := datenorm.Parse(doc["createdAt"], r.norm.Location()); ok {
		emp.CreatedAt = t
	}
	emp.UpdatedAt = emp.CreatedAt
	if t, ok := datenorm.Parse(doc["updatedAt"], r.norm.Location()); ok {
		emp.UpdatedAt = t
	}

	for i, item := range list(doc, "familyMembers") {
		raw, _ := item.(map[string]any)
		if raw == nil {
			continue
		}
		dob, ok := r.norm.Normalize(raw["dob"], "familyMembers["+strconv.Itoa(i)+"].dob", snap.ID)
		fm := model.EmployeeFamilyMember{
			Name:         str(raw, "name"),
			Relationship: str(raw, "relationship"),
			DOB:          dob,
		}
		if !ok || fm.Name == "" {
			continue
		}
		emp.FamilyMembers = append(emp.FamilyMembers, fm)
	}
	return emp, true
}
