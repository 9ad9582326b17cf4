package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idportal/internal/model"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func image(name string) FileMeta {
	return FileMeta{Name: name, Type: "image/jpeg", Size: 150 * 1024}
}

func nonGazettedInput() ApplicationInput {
	return ApplicationInput{
		Fields: map[string]string{
			"applicantType":          "non-gazetted",
			"employeeName":           "R. K. Sahoo",
			"designation":            "Senior Clerk",
			"employeeNo":             "EMP-10042",
			"dateOfBirth":            "1986-07-21",
			"department":             "PERSONNEL",
			"station":                "",
			"billUnit":               "3101023",
			"residentialAddress":     "Qr 12B, Railway Colony, Mancheswar",
			"mobileNumber":           "9876543210",
			"reasonForApplication":   "New joining",
			"emergencyContactName":   "S. Sahoo",
			"emergencyContactNumber": "8895012345",
		},
		FamilyMembers: []FamilyMemberInput{
			{Name: "Anita Sahoo", Relationship: "Spouse", DOB: "1990-02-11", BloodGroup: "B+"},
		},
		Files: map[string]FileMeta{
			model.SlotPhoto:     image("photo.jpg"),
			model.SlotSignature: image("sign.png"),
		},
	}
}

func gazettedInput() ApplicationInput {
	in := nonGazettedInput()
	in.Fields["applicantType"] = "gazetted"
	in.Fields["ruidNo"] = "RUID-55001"
	delete(in.Fields, "employeeNo")
	in.Files[model.SlotHindiName] = image("hindi-name.jpg")
	in.Files[model.SlotHindiDesignation] = image("hindi-designation.jpg")
	return in
}

func validationErrors(t *testing.T, err error) Errors {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validation.Errors, got %v", err)
	return errs
}

func TestApplication_NonGazettedValid(t *testing.T) {
	v := New(ist)

	got, err := v.Application(nonGazettedInput())
	require.NoError(t, err)

	app := got.Application
	assert.Equal(t, model.ApplicantNonGazetted, app.ApplicantType)
	assert.Equal(t, "EMP-10042", app.EmployeeNo)
	assert.Empty(t, app.RUIDNo)
	assert.Equal(t, model.DefaultStation, app.Station)
	assert.Equal(t, time.Date(1986, 7, 20, 18, 30, 0, 0, time.UTC), app.DateOfBirth)
	require.Len(t, app.FamilyMembers, 1)
	assert.NotEmpty(t, app.FamilyMembers[0].ID)
	assert.Equal(t, "B+", app.FamilyMembers[0].BloodGroup)
	assert.Len(t, got.Files, 2)
}

func TestApplication_AcceptsBrowserTimestamps(t *testing.T) {
	v := New(ist)
	in := nonGazettedInput()
	in.Fields["dateOfBirth"] = "1986-07-20T18:30:00.000Z"
	in.FamilyMembers[0].DOB = "1990-02-10T18:30:00.000Z"

	got, err := v.Application(in)
	require.NoError(t, err)

	assert.Equal(t, time.Date(1986, 7, 21, 0, 0, 0, 0, ist).UTC(), got.Application.DateOfBirth)
	assert.Equal(t, "1986-07-21", got.Application.DateOfBirth.In(ist).Format("2006-01-02"))
	assert.Equal(t, time.Date(1990, 2, 11, 0, 0, 0, 0, ist).UTC(), got.Application.FamilyMembers[0].DOB)
}

func TestApplication_NonGazettedRequiresEmployeeNo(t *testing.T) {
	v := New(ist)

	for _, value := range []string{"", "   "} {
		in := nonGazettedInput()
		in.Fields["employeeNo"] = value

		got, err := v.Application(in)
		assert.Nil(t, got)
		errs := validationErrors(t, err)
		assert.Equal(t, []string{"Employee No is required for Non-Gazetted applicants."}, errs["employeeNo"])
		assert.Len(t, errs, 1)
	}
}

func TestApplication_NonGazettedNeverRequiresSupplementalScans(t *testing.T) {
	v := New(ist)
	in := nonGazettedInput()
	in.Fields["ruidNo"] = "RUID-1"
	in.Files[model.SlotHindiName] = FileMeta{Name: "x.pdf", Type: "application/pdf", Size: 10}

	got, err := v.Application(in)
	require.NoError(t, err)
	assert.Empty(t, got.Application.RUIDNo)
	assert.NotContains(t, got.Files, model.SlotHindiName)
}

func TestApplication_GazettedRequirements(t *testing.T) {
	v := New(ist)

	got, err := v.Application(gazettedInput())
	require.NoError(t, err)
	assert.Equal(t, "RUID-55001", got.Application.RUIDNo)
	assert.Empty(t, got.Application.EmployeeNo)
	assert.Len(t, got.Files, 4)

	tests := []struct {
		name   string
		mutate func(*ApplicationInput)
		field  string
		msg    string
	}{
		{
			name:   "missing ruid",
			mutate: func(in *ApplicationInput) { delete(in.Fields, "ruidNo") },
			field:  "ruidNo",
			msg:    "RUID No is required for Gazetted applicants.",
		},
		{
			name:   "missing hindi name scan",
			mutate: func(in *ApplicationInput) { delete(in.Files, model.SlotHindiName) },
			field:  model.SlotHindiName,
			msg:    "Upload Hindi Name is required for Gazetted applicants.",
		},
		{
			name:   "missing hindi designation scan",
			mutate: func(in *ApplicationInput) { delete(in.Files, model.SlotHindiDesignation) },
			field:  model.SlotHindiDesignation,
			msg:    "Upload Hindi Designation is required for Gazetted applicants.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := gazettedInput()
			tt.mutate(&in)

			got, err := v.Application(in)
			assert.Nil(t, got)
			errs := validationErrors(t, err)
			assert.Equal(t, []string{tt.msg}, errs[tt.field])
		})
	}
}

func TestApplication_MobileNumberPattern(t *testing.T) {
	v := New(ist)

	tests := []struct {
		mobile string
		ok     bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"1234567890", false},
		{"5876543210", false},
		{"987654321", false},
		{"98765432100", false},
		{"98765abcde", false},
	}

	for _, tt := range tests {
		t.Run(tt.mobile, func(t *testing.T) {
			in := nonGazettedInput()
			in.Fields["mobileNumber"] = tt.mobile

			_, err := v.Application(in)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			errs := validationErrors(t, err)
			assert.True(t, errs.Has("mobileNumber"))
		})
	}
}

func TestApplication_FieldRules(t *testing.T) {
	v := New(ist)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"name with digits", "employeeName", "R2D2"},
		{"unknown department", "department", "CATERING"},
		{"unknown bill unit", "billUnit", "9999999"},
		{"invalid calendar date", "dateOfBirth", "1986-02-30"},
		{"non iso date", "dateOfBirth", "21/07/1986"},
		{"emergency number", "emergencyContactNumber", "0123456789"},
		{"missing address", "residentialAddress", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := nonGazettedInput()
			in.Fields[tt.field] = tt.value

			_, err := v.Application(in)
			errs := validationErrors(t, err)
			assert.True(t, errs.Has(tt.field), "errors: %v", errs)
		})
	}
}

func TestApplication_FileLimits(t *testing.T) {
	v := New(ist)

	in := nonGazettedInput()
	in.Files[model.SlotPhoto] = FileMeta{Name: "photo.gif", Type: "image/gif", Size: MaxFileSize + 1}
	in.Files[model.SlotSignature] = FileMeta{Name: "sign.png", Type: "image/png", Size: MaxFileSize}

	_, err := v.Application(in)
	errs := validationErrors(t, err)
	assert.ElementsMatch(t, []string{
		"Unsupported file type. Accepted: image/jpeg, image/jpg, image/png",
		"File too large. Max size: 2MB.",
	}, errs[model.SlotPhoto])
	assert.False(t, errs.Has(model.SlotSignature))

	in = nonGazettedInput()
	delete(in.Files, model.SlotSignature)
	_, err = v.Application(in)
	errs = validationErrors(t, err)
	assert.Equal(t, []string{"Signature is required."}, errs[model.SlotSignature])
}

func TestApplication_FamilyMemberErrorsUseIndexedPaths(t *testing.T) {
	v := New(ist)

	in := nonGazettedInput()
	in.FamilyMembers = append(in.FamilyMembers,
		FamilyMemberInput{Name: "", Relationship: "Son", DOB: "2015-13-01"},
	)

	got, err := v.Application(in)
	assert.Nil(t, got)
	errs := validationErrors(t, err)
	assert.Equal(t, []string{"Name is required"}, errs["familyMembers.1.name"])
	assert.Equal(t, []string{"Invalid date format for family member DOB."}, errs["familyMembers.1.dob"])
	assert.False(t, errs.Has("familyMembers.0.dob"))
}

func TestApplication_UnknownApplicantType(t *testing.T) {
	v := New(ist)
	in := nonGazettedInput()
	in.Fields["applicantType"] = "contractor"

	_, err := v.Application(in)
	errs := validationErrors(t, err)
	assert.True(t, errs.Has("applicantType"))
}

func TestCheckFile(t *testing.T) {
	v := New(ist)

	assert.NoError(t, v.CheckFile("photo", image("a.jpg")))

	err := v.CheckFile("photo", FileMeta{})
	errs := validationErrors(t, err)
	assert.Contains(t, errs["photo"], "File is required.")
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{}
	errs.Add("b", "second")
	errs.Add("a", "first")
	errs.Add("a", "first")

	assert.Equal(t, "validation failed: a: first; b: second", errs.Error())
	assert.Nil(t, Errors{}.Err())
}
