package model

import (
	"time"
)

// ApplicantType selects the mandatory field and document set of an application.
type ApplicantType string

const (
	// ApplicantNonGazetted is category A: employee number, no supplemental scans.
	ApplicantNonGazetted ApplicantType = "non-gazetted"
	// ApplicantGazetted is category B: RUID number plus Hindi name and designation scans.
	ApplicantGazetted ApplicantType = "gazetted"
)

func (t ApplicantType) Valid() bool {
	return t == ApplicantNonGazetted || t == ApplicantGazetted
}

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

const DefaultStation = "BHUBANESWAR"

var Departments = []string{
	"ACCOUNTS", "COMMERCIAL", "ELECTRICAL", "ENGINEERING", "GA",
	"MECHANICAL", "MEDICAL", "OPERATING", "PERSONNEL", "RRB",
	"S&T", "SAFETY", "SECURITY", "STORES",
}

var BillUnits = []string{
	"3101001", "3101002", "3101003", "3101004", "3101010", "3101023",
	"3101024", "3101025", "3101026", "3101027", "3101065", "3101066",
	"3101165", "3101166", "3101285", "3101286", "3101287", "3101288",
	"3101470",
}

// Upload slots of an application form.
const (
	SlotPhoto            = "uploadPhoto"
	SlotSignature        = "uploadSignature"
	SlotHindiName        = "uploadHindiName"
	SlotHindiDesignation = "uploadHindiDesignation"
)

type FamilyMember struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	BloodGroup          string    `json:"bloodGroup"`
	Relationship        string    `json:"relationship"`
	DOB                 time.Time `json:"dob"`
	IdentificationMarks string    `json:"identificationMarks"`
}

// Documents holds the URLs of uploaded scans. The Hindi scans are set only
// for gazetted applicants.
type Documents struct {
	PhotoURL            string `json:"uploadPhotoUrl,omitempty"`
	SignatureURL        string `json:"uploadSignatureUrl,omitempty"`
	HindiNameURL        string `json:"uploadHindiNameUrl,omitempty"`
	HindiDesignationURL string `json:"uploadHindiDesignationUrl,omitempty"`
}

// Application is an ID-card application as read from or written to the store.
type Application struct {
	ID                     string            `json:"applicationId"`
	ApplicantType          ApplicantType     `json:"applicantType"`
	EmployeeName           string            `json:"employeeName"`
	Designation            string            `json:"designation"`
	EmployeeNo             string            `json:"employeeNo,omitempty"`
	RUIDNo                 string            `json:"ruidNo,omitempty"`
	DateOfBirth            time.Time         `json:"dateOfBirth"`
	Department             string            `json:"department"`
	Station                string            `json:"station"`
	BillUnit               string            `json:"billUnit"`
	ResidentialAddress     string            `json:"residentialAddress"`
	RlyContactNumber       string            `json:"rlyContactNumber,omitempty"`
	MobileNumber           string            `json:"mobileNumber"`
	ReasonForApplication   string            `json:"reasonForApplication"`
	EmergencyContactName   string            `json:"emergencyContactName"`
	EmergencyContactNumber string            `json:"emergencyContactNumber"`
	FamilyMembers          []FamilyMember    `json:"familyMembers"`
	Documents              Documents         `json:"documents"`
	Status                 ApplicationStatus `json:"status"`
	SubmissionDate         time.Time         `json:"submissionDate"`
}
