package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/model"

	"golang.org/x/sync/errgroup"
)

const statsDocID = "summary"

type StatisticsRepository interface {
	// Recount counts employees per status and overwrites the summary document.
	Recount(ctx context.Context) (*model.ApplicationStats, error)
	// Get returns ErrNotFound until the first recount.
	Get(ctx context.Context) (*model.ApplicationStats, error)
}

type statisticsRepository struct {
	store docstore.Store
	loc   *time.Location
	now   func() time.Time
}

func NewStatisticsRepository(store docstore.Store, loc *time.Location) StatisticsRepository {
	return &statisticsRepository{store: store, loc: loc, now: time.Now}
}

func (r *statisticsRepository) Recount(ctx context.Context) (*model.ApplicationStats, error) {
	stats := &model.ApplicationStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, filters ...docstore.Filter) {
		g.Go(func() error {
			n, err := r.store.Count(gctx, CollectionEmployees, filters...)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&stats.TotalApplications)
	count(&stats.PendingCount, docstore.Where("status", string(model.EmployeePending)))
	count(&stats.ApprovedCount, docstore.Where("status", string(model.EmployeeClosed)))
	count(&stats.RejectedCount, docstore.Where("status", string(model.EmployeeRejected)))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}

	stats.LastUpdated = r.now().UTC()
	err := r.store.Set(ctx, CollectionStats, statsDocID, docstore.Document{
		"totalApplications": stats.TotalApplications,
		"pendingCount":      stats.PendingCount,
		"approvedCount":     stats.ApprovedCount,
		"rejectedCount":     stats.RejectedCount,
		"lastUpdated":       timestamp(stats.LastUpdated),
	})
	if err != nil {
		return nil, fmt.Errorf("store statistics: %w", err)
	}
	return stats, nil
}

func (r *statisticsRepository) Get(ctx context.Context) (*model.ApplicationStats, error) {
	snap, err := r.store.Get(ctx, CollectionStats, statsDocID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}

	stats := &model.ApplicationStats{}
	stats.TotalApplications, _ = integer(snap.Data["totalApplications"])
	stats.PendingCount, _ = integer(snap.Data["pendingCount"])
	stats.ApprovedCount, _ = integer(snap.Data["approvedCount"])
	stats.RejectedCount, _ = integer(snap.Data["rejectedCount"])
	if t, ok := datenorm.Parse(snap.Data["lastUpdated"], r.loc); ok {
		stats.LastUpdated = t
	}
	return stats, nil
}
