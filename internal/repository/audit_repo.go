package repository

import (
	"context"
	"fmt"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/model"

	"github.com/google/uuid"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	store docstore.Store
}

func NewAuditRepository(store docstore.Store) AuditRepository {
	return &auditRepository{store: store}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.store.Set(ctx, CollectionAuditLogs, entry.ID, docstore.Document{
		"userId":     entry.UserID,
		"userEmail":  entry.UserEmail,
		"action":     entry.Action,
		"entityId":   entry.EntityID,
		"entityName": entry.EntityName,
		"details":    entry.Details,
		"createdAt":  timestamp(entry.CreatedAt),
	})
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	total, err := r.store.Count(ctx, CollectionAuditLogs)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	offset := (page - 1) * limit
	snaps, err := r.store.Find(ctx, CollectionAuditLogs, docstore.Query{
		Newest: true,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	logs := make([]model.AuditLog, 0, len(snaps))
	for _, snap := range snaps {
		entry := model.AuditLog{
			ID:         snap.ID,
			UserID:     str(snap.Data, "userId"),
			UserEmail:  str(snap.Data, "userEmail"),
			Action:     str(snap.Data, "action"),
			EntityID:   str(snap.Data, "entityId"),
			EntityName: str(snap.Data, "entityName"),
			Details:    str(snap.Data, "details"),
			CreatedAt:  snap.CreatedAt,
		}
		if t, ok := datenorm.Parse(snap.Data["createdAt"], time.UTC); ok {
			entry.CreatedAt = t
		}
		logs = append(logs, entry)
	}
	return logs, total, nil
}
