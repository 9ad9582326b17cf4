package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idportal/internal/model"
)

func employeeInput() EmployeeInput {
	return EmployeeInput{
		EmpNo:                "50012",
		EmpName:              "P. Mohanty",
		Designation:          "Section Engineer",
		Department:           "ELECTRICAL",
		Station:              "BHUBANESWAR",
		DOB:                  "1979-11-03",
		Address:              "Plot 7, Sahid Nagar",
		MobileNumber:         "7008123456",
		EmergencyContactName: "L. Mohanty",
		EmergencyContactNo:   "9437001122",
		PhotoURL:             "https://files.example.org/employees/50012/photo.jpg",
		ApplicationDate:      "2024-05-02T10:15:00+05:30",
		Status:               string(model.EmployeePending),
		IdentificationMarks:  []string{" mole on left cheek ", ""},
		FamilyMembers: []EmployeeFamilyInput{
			{Name: "R. Mohanty", Relationship: "Daughter", DOB: "2008-04-19"},
		},
	}
}

func TestEmployee_Valid(t *testing.T) {
	v := New(ist)

	emp, err := v.Employee(employeeInput())
	require.NoError(t, err)

	assert.Equal(t, model.EmployeePending, emp.Status)
	assert.Equal(t, []string{"mole on left cheek"}, emp.IdentificationMarks)
	assert.Equal(t, time.Date(2024, 5, 2, 4, 45, 0, 0, time.UTC), emp.ApplicationDate)
	require.Len(t, emp.FamilyMembers, 1)
	assert.Equal(t, "Daughter", emp.FamilyMembers[0].Relationship)
}

func TestEmployee_Rules(t *testing.T) {
	v := New(ist)

	tests := []struct {
		name   string
		mutate func(*EmployeeInput)
		field  string
	}{
		{"missing emp no", func(in *EmployeeInput) { in.EmpNo = "" }, "empNo"},
		{"bad mobile", func(in *EmployeeInput) { in.MobileNumber = "1234567890" }, "mobileNumber"},
		{"bad status", func(in *EmployeeInput) { in.Status = "Shipped" }, "status"},
		{"bad photo url", func(in *EmployeeInput) { in.PhotoURL = "not a url" }, "photoURL"},
		{"bad application date", func(in *EmployeeInput) { in.ApplicationDate = "soon" }, "applicationDate"},
		{"family member dob", func(in *EmployeeInput) { in.FamilyMembers[0].DOB = "2008-02-31" }, "familyMembers.0.dob"},
		{"family member name", func(in *EmployeeInput) { in.FamilyMembers[0].Name = " " }, "familyMembers.0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := employeeInput()
			in.FamilyMembers = append([]EmployeeFamilyInput(nil), in.FamilyMembers...)
			tt.mutate(&in)

			emp, err := v.Employee(in)
			assert.Nil(t, emp)
			errs := validationErrors(t, err)
			assert.True(t, errs.Has(tt.field), "errors: %v", errs)
		})
	}
}

func TestDateRange(t *testing.T) {
	v := New(time.UTC)

	from, to, err := v.DateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), to)

	_, _, err = v.DateRange("2024-02-01", "2024-01-01")
	errs := validationErrors(t, err)
	assert.True(t, errs.Has("end"))

	_, _, err = v.DateRange("yesterday", "2024-01-01")
	errs = validationErrors(t, err)
	assert.True(t, errs.Has("start"))
}

func TestAdminUser(t *testing.T) {
	v := New(time.UTC)

	assert.NoError(t, v.AdminUser(AdminUserInput{
		Email: "ops@idcard.example.org", Name: "Ops", Role: model.RoleOperator, Password: "s3cret-pass",
	}))

	err := v.AdminUser(AdminUserInput{Email: "nope", Name: "", Role: "root", Password: "short"})
	errs := validationErrors(t, err)
	assert.Equal(t, []string{"Invalid email format"}, errs["email"])
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("role"))
	assert.True(t, errs.Has("password"))
}
