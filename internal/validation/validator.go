// Package validation turns raw submitted values into typed records or
// field-level error maps. It performs no I/O.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-playground/validator/v10"

	"idportal/internal/datenorm"
	"idportal/internal/model"
)

const (
	MaxFileSize = 2 * 1024 * 1024
)

var AcceptedImageTypes = []string{"image/jpeg", "image/jpg", "image/png"}

var (
	mobilePattern     = regexp.MustCompile(`^[6-9]\d{9}$`)
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s.]+$`)
	indexPattern      = regexp.MustCompile(`\[(\d+)\]`)
)

// Validator holds the configured rule set. It is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	loc *time.Location
}

// New builds a Validator that reads calendar dates in loc.
func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	val := &Validator{v: v, loc: loc}
	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "department", func(fl validator.FieldLevel) bool {
		return contains(model.Departments, fl.Field().String())
	})
	mustRegister(v, "billunit", func(fl validator.FieldLevel) bool {
		return contains(model.BillUnits, fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := datenorm.ParseDay(fl.Field().String(), val.loc)
		return err == nil
	})
	mustRegister(v, "anydate", func(fl validator.FieldLevel) bool {
		_, ok := datenorm.Parse(fl.Field().String(), val.loc)
		return ok
	})
	mustRegister(v, "empstatus", func(fl validator.FieldLevel) bool {
		return model.EmployeeStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "adminrole", func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	})
	mustRegister(v, "weburl", func(fl validator.FieldLevel) bool {
		return govalidator.IsURL(fl.Field().String())
	})
	mustRegister(v, "mailaddr", func(fl validator.FieldLevel) bool {
		return govalidator.IsEmail(fl.Field().String())
	})

	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Location returns the zone calendar dates are read in.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// check runs struct validation and converts failures into Errors keyed by
// json field path relative to s.
func (v *Validator) check(s any, messages messageSet) Errors {
	errs := Errors{}
	err := v.v.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(FormField, err.Error())
		return errs
	}
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		errs.Add(path, messages.text(fe))
	}
	return errs
}

// fieldPath converts "EmployeeInput.familyMembers[2].dob" into
// "familyMembers.2.dob". Embedded structs do not add a path segment.
func fieldPath(namespace string) string {
	segments := strings.Split(indexPattern.ReplaceAllString(namespace, ".$1"), ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	out := segments[:0]
	for _, seg := range segments {
		if seg == embeddedCommon {
			continue
		}
		out = append(out, seg)
	}
	return strings.Join(out, ".")
}

// messageSet resolves a human message for a failed rule. Field-specific
// overrides win over the per-tag defaults.
type messageSet map[string]string

func (m messageSet) text(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	label := labelFor(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "mobile":
		return "Enter a valid 10-digit number starting with 6-9"
	case "personname":
		return label + " should contain only letters, spaces, and periods"
	case "department":
		return "Select a valid department"
	case "billunit":
		return "Select a valid bill unit"
	case "isodate", "anydate":
		return "Invalid date format for " + label
	case "empstatus":
		return "Status must be one of the employee workflow states"
	case "adminrole":
		return "Role must be one of " + strings.Join(model.AdminRoles, ", ")
	case "weburl":
		return "Invalid " + label
	case "mailaddr":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", label, fe.Tag())
}

var labels = map[string]string{
	"employeeName":           "Employee name",
	"designation":            "Designation",
	"employeeNo":             "Employee No",
	"ruidNo":                 "RUID No",
	"dateOfBirth":            "Date of Birth",
	"department":             "Department",
	"station":                "Station",
	"billUnit":               "Bill unit",
	"residentialAddress":     "Residential address",
	"mobileNumber":           "Mobile number",
	"reasonForApplication":   "Reason for application",
	"emergencyContactName":   "Emergency contact name",
	"emergencyContactNumber": "Emergency contact number",
	"name":                   "Name",
	"relationship":           "Relationship",
	"dob":                    "Date of Birth",
	"empNo":                  "Employee Number",
	"empName":                "Employee Name",
	"address":                "Address",
	"emergencyContactNo":     "Emergency contact number",
	"applicationDate":        "Application Date",
	"photoURL":               "photo URL",
	"signatureURL":           "signature URL",
	"email":                  "Email",
	"password":               "Password",
	"role":                   "Role",
}

func labelFor(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
