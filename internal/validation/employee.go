package validation

import (
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/model"
)

type EmployeeFamilyInput struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	DOB          string `json:"dob" validate:"required,isodate"`
}

// EmployeeInput is the payload for creating or replacing an employee.
type EmployeeInput struct {
	EmpNo                string                `json:"empNo" validate:"required"`
	EmpName              string                `json:"empName" validate:"required"`
	Designation          string                `json:"designation" validate:"required"`
	Department           string                `json:"department" validate:"required"`
	Station              string                `json:"station" validate:"required"`
	DOB                  string                `json:"dob" validate:"required,isodate"`
	Address              string                `json:"address" validate:"required"`
	RlyNumber            string                `json:"rlyNumber"`
	MobileNumber         string                `json:"mobileNumber" validate:"required,mobile"`
	EmergencyContactName string                `json:"emergencyContactName" validate:"required"`
	EmergencyContactNo   string                `json:"emergencyContactNo" validate:"required,mobile"`
	DeptSlNo             string                `json:"deptSlNo"`
	QRCode               string                `json:"qrCode"`
	PhotoURL             string                `json:"photoURL" validate:"omitempty,weburl"`
	SignatureURL         string                `json:"signatureURL" validate:"omitempty,weburl"`
	ApplicationDate      string                `json:"applicationDate" validate:"required,anydate"`
	Status               string                `json:"status" validate:"required,empstatus"`
	BloodGroup           string                `json:"bloodGroup"`
	IdentificationMarks  []string              `json:"identificationMarks"`
	FamilyMembers        []EmployeeFamilyInput `json:"familyMembers" validate:"dive"`
}

var employeeMessages = messageSet{
	"mobileNumber.mobile":       "Valid 10-digit mobile number required",
	"emergencyContactNo.mobile": "Valid 10-digit emergency contact number required",
	"name.required":             "Family member name is required",
	"relationship.required":     "Family member relationship is required",
}

// Employee validates in and converts it to an Employee without ID or
// bookkeeping timestamps.
func (v *Validator) Employee(in EmployeeInput) (*model.Employee, error) {
	in = trimEmployee(in)
	if errs := v.check(in, employeeMessages); len(errs) > 0 {
		return nil, errs
	}

	dob, _ := datenorm.ParseDay(in.DOB, v.loc)
	applied, _ := datenorm.Parse(in.ApplicationDate, v.loc)

	members := make([]model.EmployeeFamilyMember, 0, len(in.FamilyMembers))
	for _, fm := range in.FamilyMembers {
		fmDOB, _ := datenorm.ParseDay(fm.DOB, v.loc)
		members = append(members, model.EmployeeFamilyMember{
			Name:         fm.Name,
			Relationship: fm.Relationship,
			DOB:          fmDOB.UTC(),
		})
	}

	marks := make([]string, 0, len(in.IdentificationMarks))
	for _, m := range in.IdentificationMarks {
		if m = strings.TrimSpace(m); m != "" {
			marks = append(marks, m)
		}
	}

	return &model.Employee{
		EmpNo:                in.EmpNo,
		EmpName:              in.EmpName,
		Designation:          in.Designation,
		Department:           in.Department,
		Station:              in.Station,
		DOB:                  dob.UTC(),
		Address:              in.Address,
		RlyNumber:            in.RlyNumber,
		MobileNumber:         in.MobileNumber,
		EmergencyContactName: in.EmergencyContactName,
		EmergencyContactNo:   in.EmergencyContactNo,
		DeptSlNo:             in.DeptSlNo,
		QRCode:               in.QRCode,
		PhotoURL:             in.PhotoURL,
		SignatureURL:         in.SignatureURL,
		ApplicationDate:      applied,
		Status:               model.EmployeeStatus(in.Status),
		BloodGroup:           in.BloodGroup,
		IdentificationMarks:  marks,
		FamilyMembers:        members,
	}, nil
}

// EmployeeStatus checks a single workflow status value.
func (v *Validator) EmployeeStatus(status string) error {
	if !model.EmployeeStatus(status).Valid() {
		errs := Errors{}
		errs.Add("status", "Status must be one of the employee workflow states")
		return errs
	}
	return nil
}

// DateRange parses an inclusive range of calendar days. end covers the whole
// last day.
func (v *Validator) DateRange(start, end string) (time.Time, time.Time, error) {
	errs := Errors{}
	from, err := datenorm.ParseDay(start, v.loc)
	if err != nil {
		errs.Add("start", "Invalid date format for start")
	}
	to, err := datenorm.ParseDay(end, v.loc)
	if err != nil {
		errs.Add("end", "Invalid date format for end")
	}
	if len(errs) == 0 && to.Before(from) {
		errs.Add("end", "End date must not be before start date")
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return from.UTC(), to.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC(), nil
}

type AdminUserInput struct {
	Email    string `json:"email" validate:"required,mailaddr"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,adminrole"`
	Password string `json:"password" validate:"required,min=8"`
}

func (v *Validator) AdminUser(in AdminUserInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	return v.check(in, nil).Err()
}

func trimEmployee(in EmployeeInput) EmployeeInput {
	for _, s := range []*string{
		&in.EmpNo, &in.EmpName, &in.Designation, &in.Department, &in.Station,
		&in.DOB, &in.Address, &in.RlyNumber, &in.MobileNumber,
		&in.EmergencyContactName, &in.EmergencyContactNo, &in.DeptSlNo,
		&in.QRCode, &in.PhotoURL, &in.SignatureURL, &in.ApplicationDate,
		&in.Status, &in.BloodGroup,
	} {
		*s = strings.TrimSpace(*s)
	}
	in.FamilyMembers = append([]EmployeeFamilyInput(nil), in.FamilyMembers...)
	for i := range in.FamilyMembers {
		in.FamilyMembers[i].Name = strings.TrimSpace(in.FamilyMembers[i].Name)
		in.FamilyMembers[i].Relationship = strings.TrimSpace(in.FamilyMembers[i].Relationship)
		in.FamilyMembers[i].DOB = strings.TrimSpace(in.FamilyMembers[i].DOB)
	}
	return in
}
