package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/metrics"
	"idportal/internal/model"
)

type ApplicationRepository interface {
	// Create assigns the ID, submission date and pending status, stores the
	// record and returns the new ID.
	Create(ctx context.Context, app *model.Application) (string, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	// GetAll returns every readable application, newest submission first.
	GetAll(ctx context.Context) ([]model.Application, error)
	// UpdateStatus overwrites the status without checking the current one.
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewApplicationID formats ECR-<epoch millis>-<5 random base36 characters>.
func NewApplicationID(now time.Time) string {
	var suffix [5]byte
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return "ECR-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix[:])
}

type ApplicationOption func(*applicationRepository)

// WithClock overrides the time source used for submission dates and IDs.
func WithClock(now func() time.Time) ApplicationOption {
	return func(r *applicationRepository) {
		r.now = now
	}
}

// WithIDGenerator overrides NewApplicationID.
func WithIDGenerator(gen func(time.Time) string) ApplicationOption {
	return func(r *applicationRepository) {
		r.newID = gen
	}
}

type applicationRepository struct {
	store   docstore.Store
	norm    *datenorm.Normalizer
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func(time.Time) string
}

func NewApplicationRepository(store docstore.Store, norm *datenorm.Normalizer, logger *slog.Logger, m *metrics.Metrics, opts ...ApplicationOption) ApplicationRepository {
	r := &applicationRepository{
		store:   store,
		norm:    norm,
		logger:  logger.With("component", "application_repository"),
		metrics: m,
		now:     time.Now,
		newID:   NewApplicationID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) (string, error) {
	now := r.now().UTC()
	app.ID = r.newID(now)
	app.SubmissionDate = now
	app.Status = model.StatusPending

	if err := r.store.Set(ctx, CollectionApplications, app.ID, applicationDocument(app)); err != nil {
		return "", fmt.Errorf("create application: %w", err)
	}
	return app.ID, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	snap, err := r.store.Get(ctx, CollectionApplications, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}

	app, ok := r.fromSnapshot(*snap)
	if !ok {
		return nil, ErrNotFound
	}
	return app, nil
}

func (r *applicationRepository) GetAll(ctx context.Context) ([]model.Application, error) {
	snaps, err := r.store.Find(ctx, CollectionApplications, docstore.Query{Newest: true})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]model.Application, 0, len(snaps))
	for _, snap := range snaps {
		if app, ok := r.fromSnapshot(snap); ok {
			apps = append(apps, *app)
		}
	}

	slices.SortStableFunc(apps, func(a, b model.Application) int {
		return cmp.Compare(b.SubmissionDate.UnixNano(), a.SubmissionDate.UnixNano())
	})
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	err := r.store.Update(ctx, CollectionApplications, id, docstore.Document{"status": string(status)})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update application %s status: %w", id, err)
	}
	return nil
}

func applicationDocument(app *model.Application) docstore.Document {
	members := make([]any, 0, len(app.FamilyMembers))
	for _, fm := range app.FamilyMembers {
		members = append(members, map[string]any{
			"id":                  fm.ID,
			"name":                fm.Name,
			"bloodGroup":          fm.BloodGroup,
			"relationship":        fm.Relationship,
			"dob":                 timestamp(fm.DOB),
			"identificationMarks": fm.IdentificationMarks,
		})
	}

	doc := docstore.Document{
		"applicantType":          string(app.ApplicantType),
		"employeeName":           app.EmployeeName,
		"designation":            app.Designation,
		"dateOfBirth":            timestamp(app.DateOfBirth),
		"department":             app.Department,
		"station":                app.Station,
		"billUnit":               app.BillUnit,
		"residentialAddress":     app.ResidentialAddress,
		"rlyContactNumber":       app.RlyContactNumber,
		"mobileNumber":           app.MobileNumber,
		"reasonForApplication":   app.ReasonForApplication,
		"emergencyContactName":   app.EmergencyContactName,
		"emergencyContactNumber": app.EmergencyContactNumber,
		"familyMembers":          members,
		"uploadPhotoUrl":         app.Documents.PhotoURL,
		"uploadSignatureUrl":     app.Documents.SignatureURL,
		"status":                 string(app.Status),
		"submissionDate":         timestamp(app.SubmissionDate),
	}

	// The identifier and supplemental scans of the other category are
	// never written.
	switch app.ApplicantType {
	case model.ApplicantGazetted:
		doc["ruidNo"] = app.RUIDNo
		doc["uploadHindiNameUrl"] = app.Documents.HindiNameURL
		doc["uploadHindiDesignationUrl"] = app.Documents.HindiDesignationURL
	default:
		doc["employeeNo"] = app.EmployeeNo
	}
	return doc
}

// fromSnapshot normalizes every date of a stored application. Records that
// are missing a required field or carry an unusable date are reported as
// corrupt and skipped.
func (r *applicationRepository) fromSnapshot(snap docstore.Snapshot) (*model.Application, bool) {
	doc := snap.Data

	app := &model.Application{
		ID:                     snap.ID,
		ApplicantType:          model.ApplicantType(str(doc, "applicantType")),
		EmployeeName:           str(doc, "employeeName"),
		Designation:            str(doc, "designation"),
		EmployeeNo:             str(doc, "employeeNo"),
		RUIDNo:                 str(doc, "ruidNo"),
		Department:             str(doc, "department"),
		Station:                str(doc, "station"),
		BillUnit:               str(doc, "billUnit"),
		ResidentialAddress:     str(doc, "residentialAddress"),
		RlyContactNumber:       str(doc, "rlyContactNumber"),
		MobileNumber:           str(doc, "mobileNumber"),
		ReasonForApplication:   str(doc, "reasonForApplication"),
		EmergencyContactName:   str(doc, "emergencyContactName"),
		EmergencyContactNumber: str(doc, "emergencyContactNumber"),
		Status:                 model.ApplicationStatus(str(doc, "status")),
		Documents: model.Documents{
			PhotoURL:            str(doc, "uploadPhotoUrl"),
			SignatureURL:        str(doc, "uploadSignatureUrl"),
			HindiNameURL:        str(doc, "uploadHindiNameUrl"),
			HindiDesignationURL: str(doc, "uploadHindiDesignationUrl"),
		},
	}

	var missing []string
	if !app.ApplicantType.Valid() {
		missing = append(missing, "applicantType")
	}
	if app.EmployeeName == "" {
		missing = append(missing, "employeeName")
	}
	if app.Designation == "" {
		missing = append(missing, "designation")
	}
	if !app.Status.Valid() {
		missing = append(missing, "status")
	}

	var ok bool
	if app.DateOfBirth, ok = r.norm.Normalize(doc["dateOfBirth"], "dateOfBirth", snap.ID); !ok {
		missing = append(missing, "dateOfBirth")
	}
	if app.SubmissionDate, ok = r.norm.Normalize(doc["submissionDate"], "submissionDate", snap.ID); !ok {
		missing = append(missing, "submissionDate")
	}

	if len(missing) > 0 {
		r.logger.Warn("skipping corrupt application record",
			"application_id", snap.ID,
			"invalid_fields", strings.Join(missing, ","),
		)
		r.metrics.IncCorruptRecord(CollectionApplications)
		return nil, false
	}

	for i, item := range list(doc, "familyMembers") {
		raw, _ := item.(map[string]any)
		if raw == nil {
			continue
		}
		field := "familyMembers[" + strconv.Itoa(i) + "].dob"
		dob, ok := r.norm.Normalize(raw["dob"], field, snap.ID)
		fm := model.FamilyMember{
			ID:                  str(raw, "id"),
			Name:                str(raw, "name"),
			BloodGroup:          str(raw, "bloodGroup"),
			Relationship:        str(raw, "relationship"),
			DOB:                 dob,
			IdentificationMarks: str(raw, "identificationMarks"),
		}
		if !ok || fm.Name == "" || fm.Relationship == "" {
			r.logger.Warn("dropping unreadable family member",
				"application_id", snap.ID,
				"index", i,
			)
			continue
		}
		app.FamilyMembers = append(app.FamilyMembers, fm)
	}
	if app.FamilyMembers == nil {
		app.FamilyMembers = []model.FamilyMember{}
	}
	return app, true
}
