package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"idportal/internal/datenorm"
	"idportal/internal/model"
)

// embeddedCommon is the Go name of the struct shared by both applicant variants.
const embeddedCommon = "ApplicantFields"

// FileMeta describes one uploaded file as seen by validation.
type FileMeta struct {
	Name string
	Type string
	Size int64
}

// FamilyMemberInput is a dependent as submitted, with the birth date still a string.
type FamilyMemberInput struct {
	Name                string `json:"name" validate:"required"`
	BloodGroup          string `json:"bloodGroup"`
	Relationship        string `json:"relationship" validate:"required"`
	DOB                 string `json:"dob" validate:"required,isodate"`
	IdentificationMarks string `json:"identificationMarks"`
}

// ApplicationInput is a raw submission: form fields by name, dependents and
// the metadata of every file slot that was filled.
type ApplicationInput struct {
	Fields        map[string]string
	FamilyMembers []FamilyMemberInput
	Files         map[string]FileMeta
}

// ValidatedApplication is a submission that passed every rule. Application
// has no ID, status or submission date yet. Files lists the slots that must
// be uploaded for this applicant type.
type ValidatedApplication struct {
	Application model.Application
	Files       map[string]FileMeta
}

// ApplicantFields are required from every applicant type.
type ApplicantFields struct {
	EmployeeName           string `json:"employeeName" validate:"required,personname"`
	Designation            string `json:"designation" validate:"required"`
	DateOfBirth            string `json:"dateOfBirth" validate:"required,isodate"`
	Department             string `json:"department" validate:"required,department"`
	Station                string `json:"station" validate:"required"`
	BillUnit               string `json:"billUnit" validate:"required,billunit"`
	ResidentialAddress     string `json:"residentialAddress" validate:"required"`
	RlyContactNumber       string `json:"rlyContactNumber"`
	MobileNumber           string `json:"mobileNumber" validate:"required,mobile"`
	ReasonForApplication   string `json:"reasonForApplication" validate:"required"`
	EmergencyContactName   string `json:"emergencyContactName" validate:"required"`
	EmergencyContactNumber string `json:"emergencyContactNumber" validate:"required,mobile"`
}

// nonGazettedFields is category A.
type nonGazettedFields struct {
	ApplicantFields
	EmployeeNo string `json:"employeeNo" validate:"required"`
}

// gazettedFields is category B.
type gazettedFields struct {
	ApplicantFields
	RUIDNo string `json:"ruidNo" validate:"required"`
}

var applicationMessages = messageSet{
	"employeeNo.required":           "Employee No is required for Non-Gazetted applicants.",
	"ruidNo.required":               "RUID No is required for Gazetted applicants.",
	"dateOfBirth.required":          "Date of Birth is required",
	"dateOfBirth.isodate":           "Invalid date format for Date of Birth.",
	"mobileNumber.mobile":           "Enter a valid 10-digit mobile number starting with 6-9",
	"emergencyContactNumber.mobile": "Enter a valid 10-digit emergency contact number",
	"dob.isodate":                   "Invalid date format for family member DOB.",
	"employeeName.personname":       "Employee name should contain only letters, spaces, and periods",
}

// slotRule lists the file slots of an applicant type.
type slotRule struct {
	slot     string
	required string
}

var (
	commonSlots = []slotRule{
		{model.SlotPhoto, "Photo is required."},
		{model.SlotSignature, "Signature is required."},
	}
	gazettedSlots = []slotRule{
		{model.SlotHindiName, "Upload Hindi Name is required for Gazetted applicants."},
		{model.SlotHindiDesignation, "Upload Hindi Designation is required for Gazetted applicants."},
	}
)

// Application validates a submission. The applicant type picks the variant
// record; fields of the other variant are ignored. On failure the returned
// error is Errors and no record is returned.
func (v *Validator) Application(in ApplicationInput) (*ValidatedApplication, error) {
	errs := Errors{}
	field := func(name string) string {
		return strings.TrimSpace(in.Fields[name])
	}

	applicantType := model.ApplicantType(field("applicantType"))
	if !applicantType.Valid() {
		errs.Add("applicantType", "Applicant type must be gazetted or non-gazetted.")
		return nil, errs
	}

	common := ApplicantFields{
		EmployeeName:           field("employeeName"),
		Designation:            field("designation"),
		DateOfBirth:            field("dateOfBirth"),
		Department:             field("department"),
		Station:                field("station"),
		BillUnit:               field("billUnit"),
		ResidentialAddress:     field("residentialAddress"),
		RlyContactNumber:       field("rlyContactNumber"),
		MobileNumber:           field("mobileNumber"),
		ReasonForApplication:   field("reasonForApplication"),
		EmergencyContactName:   field("emergencyContactName"),
		EmergencyContactNumber: field("emergencyContactNumber"),
	}
	if common.Station == "" {
		common.Station = model.DefaultStation
	}

	app := model.Application{ApplicantType: applicantType}
	slots := commonSlots

	switch applicantType {
	case model.ApplicantNonGazetted:
		rec := nonGazettedFields{ApplicantFields: common, EmployeeNo: field("employeeNo")}
		errs.Merge("", v.check(rec, applicationMessages))
		app.EmployeeNo = rec.EmployeeNo
	case model.ApplicantGazetted:
		rec := gazettedFields{ApplicantFields: common, RUIDNo: field("ruidNo")}
		errs.Merge("", v.check(rec, applicationMessages))
		app.RUIDNo = rec.RUIDNo
		slots = append(append([]slotRule{}, commonSlots...), gazettedSlots...)
	}

	members := make([]model.FamilyMember, 0, len(in.FamilyMembers))
	for i, fm := range in.FamilyMembers {
		fm = trimMember(fm)
		memberErrs := v.check(fm, applicationMessages)
		if len(memberErrs) > 0 {
			errs.Merge(fmt.Sprintf("familyMembers.%d", i), memberErrs)
			continue
		}
		dob, _ := datenorm.ParseDay(fm.DOB, v.loc)
		members = append(members, model.FamilyMember{
			ID:                  uuid.NewString(),
			Name:                fm.Name,
			BloodGroup:          fm.BloodGroup,
			Relationship:        fm.Relationship,
			DOB:                 dob.UTC(),
			IdentificationMarks: fm.IdentificationMarks,
		})
	}

	files := make(map[string]FileMeta, len(slots))
	for _, rule := range slots {
		meta, ok := in.Files[rule.slot]
		if !ok || meta.Name == "" {
			errs.Add(rule.slot, rule.required)
			continue
		}
		for _, msg := range v.checkFile(meta) {
			errs.Add(rule.slot, msg)
		}
		files[rule.slot] = meta
	}

	if len(errs) > 0 {
		return nil, errs
	}

	dob, _ := datenorm.ParseDay(common.DateOfBirth, v.loc)
	app.EmployeeName = common.EmployeeName
	app.Designation = common.Designation
	app.DateOfBirth = dob.UTC()
	app.Department = common.Department
	app.Station = common.Station
	app.BillUnit = common.BillUnit
	app.ResidentialAddress = common.ResidentialAddress
	app.RlyContactNumber = common.RlyContactNumber
	app.MobileNumber = common.MobileNumber
	app.ReasonForApplication = common.ReasonForApplication
	app.EmergencyContactName = common.EmergencyContactName
	app.EmergencyContactNumber = common.EmergencyContactNumber
	app.FamilyMembers = members

	return &ValidatedApplication{Application: app, Files: files}, nil
}

// checkFile returns the messages for a file that breaks the type or size limits.
func (v *Validator) checkFile(meta FileMeta) []string {
	var msgs []string
	if err := v.v.Var(meta.Type, "required,oneof="+strings.Join(AcceptedImageTypes, " ")); err != nil {
		msgs = append(msgs, "Unsupported file type. Accepted: "+strings.Join(AcceptedImageTypes, ", "))
	}
	if err := v.v.Var(meta.Size, fmt.Sprintf("gt=0,max=%d", MaxFileSize)); err != nil {
		if meta.Size <= 0 {
			msgs = append(msgs, "File is empty.")
		} else {
			msgs = append(msgs, fmt.Sprintf("File too large. Max size: %dMB.", MaxFileSize/(1024*1024)))
		}
	}
	return msgs
}

// CheckFile validates a single upload outside of a full submission.
func (v *Validator) CheckFile(slot string, meta FileMeta) error {
	errs := Errors{}
	if meta.Name == "" {
		errs.Add(slot, "File is required.")
	}
	for _, msg := range v.checkFile(meta) {
		errs.Add(slot, msg)
	}
	return errs.Err()
}

// ParseDay reads a calendar date in the validator's location.
func (v *Validator) ParseDay(s string) (time.Time, error) {
	return datenorm.ParseDay(s, v.loc)
}

func trimMember(fm FamilyMemberInput) FamilyMemberInput {
	fm.Name = strings.TrimSpace(fm.Name)
	fm.BloodGroup = strings.TrimSpace(fm.BloodGroup)
	fm.Relationship = strings.TrimSpace(fm.Relationship)
	fm.DOB = strings.TrimSpace(fm.DOB)
	fm.IdentificationMarks = strings.TrimSpace(fm.IdentificationMarks)
	return fm
}
