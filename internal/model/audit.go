package model

import (
	"time"
)

const (
	ActionApproveApplication   = "APPROVE_APPLICATION"
	ActionRejectApplication    = "REJECT_APPLICATION"
	ActionCreateEmployee       = "CREATE_EMPLOYEE"
	ActionUpdateEmployee       = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee       = "DELETE_EMPLOYEE"
	ActionUpdateEmployeeStatus = "UPDATE_EMPLOYEE_STATUS"
	ActionBulkUpdateStatus     = "BULK_UPDATE_EMPLOYEE_STATUS"
	ActionBulkDeleteEmployees  = "BULK_DELETE_EMPLOYEES"
	ActionUploadFile           = "UPLOAD_FILE"
	ActionDeleteFile           = "DELETE_FILE"
	ActionCreateAdminUser      = "CREATE_ADMIN_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"` // empty for automated actions
	UserEmail  string    `json:"user_email,omitempty"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name,omitempty"`
	Details    string    `json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time `json:"created_at"`
}
