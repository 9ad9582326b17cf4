package validation

import (
	"sort"
	"strings"
)

// FormField is the key used for errors that do not belong to one field.
const FormField = "_form"

// Errors maps a field path ("employeeNo", "familyMembers.2.dob") to the
// messages reported for it.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	for _, existing := range e[field] {
		if existing == message {
			return
		}
	}
	e[field] = append(e[field], message)
}

// Merge copies other into e, prefixing each path.
func (e Errors) Merge(prefix string, other Errors) {
	for field, messages := range other {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		for _, m := range messages {
			e.Add(path, m)
		}
	}
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns nil when e is empty so callers can return it directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
