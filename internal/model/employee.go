package model

import (
	"time"
)

// EmployeeStatus follows an ID card through printing and dispatch.
type EmployeeStatus string

const (
	EmployeePending        EmployeeStatus = "Pending"
	EmployeePrintingDraft  EmployeeStatus = "Printing (Draft)"
	EmployeePrintingToSend EmployeeStatus = "Printing (To be Sent)"
	EmployeePrintingSent   EmployeeStatus = "Printing (Sent)"
	EmployeeClosed         EmployeeStatus = "Closed"
	EmployeeRejected       EmployeeStatus = "Rejected"
)

var EmployeeStatuses = []EmployeeStatus{
	EmployeePending,
	EmployeePrintingDraft,
	EmployeePrintingToSend,
	EmployeePrintingSent,
	EmployeeClosed,
	EmployeeRejected,
}

func (s EmployeeStatus) Valid() bool {
	for _, v := range EmployeeStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Employee file slots.
const (
	EmployeeSlotPhoto     = "photo"
	EmployeeSlotSignature = "signature"
)

type EmployeeFamilyMember struct {
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	DOB          time.Time `json:"dob"`
}

// Employee is a card holder record managed from the admin backend.
type Employee struct {
	ID                   string                 `json:"id"`
	EmpNo                string                 `json:"empNo"`
	EmpName              string                 `json:"empName"`
	Designation          string                 `json:"designation"`
	Department           string                 `json:"department"`
	Station              string                 `json:"station"`
	DOB                  time.Time              `json:"dob"`
	Address              string                 `json:"address"`
	RlyNumber            string                 `json:"rlyNumber,omitempty"`
	MobileNumber         string                 `json:"mobileNumber"`
	EmergencyContactName string                 `json:"emergencyContactName"`
	EmergencyContactNo   string                 `json:"emergencyContactNo"`
	DeptSlNo             string                 `json:"deptSlNo,omitempty"`
	QRCode               string                 `json:"qrCode,omitempty"`
	PhotoURL             string                 `json:"photoURL,omitempty"`
	SignatureURL         string                 `json:"signatureURL,omitempty"`
	ApplicationDate      time.Time              `json:"applicationDate"`
	Status               EmployeeStatus         `json:"status"`
	BloodGroup           string                 `json:"bloodGroup,omitempty"`
	IdentificationMarks  []string               `json:"identificationMarks"`
	FamilyMembers        []EmployeeFamilyMember `json:"familyMembers"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// EmployeeFilter narrows employee listings. Empty fields match everything.
type EmployeeFilter struct {
	Status     string
	Department string
	Station    string
}
