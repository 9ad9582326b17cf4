package repository

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"idportal/internal/datenorm"
)

// Collection names.
const (
	CollectionApplications = "applications"
	CollectionEmployees    = "employees"
	CollectionStats        = "application_stats"
	CollectionAdminUsers   = "admin_users"
	CollectionAuditLogs    = "audit_logs"
)

// ErrNotFound is returned for missing records and for stored records that
// fail the completeness check.
var ErrNotFound = errors.New("record not found")

// timestamp is the stored form of every date field.
func timestamp(t time.Time) datenorm.Timestamp {
	return datenorm.FromTime(t)
}

func str(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}

func list(doc map[string]any, key string) []any {
	items, _ := doc[key].([]any)
	return items
}

func strList(doc map[string]any, key string) []string {
	items := list(doc, key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func toAnyList(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

// integer reads a whole number stored by any backend.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
