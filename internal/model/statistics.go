package model

import (
	"time"
)

// ApplicationStats is the summary document recounted after every employee mutation.
type ApplicationStats struct {
	TotalApplications int64     `json:"totalApplications"`
	PendingCount      int64     `json:"pendingCount"`
	ApprovedCount     int64     `json:"approvedCount"`
	RejectedCount     int64     `json:"rejectedCount"`
	LastUpdated       time.Time `json:"lastUpdated"`
}
