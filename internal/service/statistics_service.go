package service

import (
	"context"
	"errors"
	"time"

	"idportal/internal/model"
	"idportal/internal/repository"
)

type StatisticsResponse struct {
	TotalApplications int64  `json:"totalApplications"`
	PendingCount      int64  `json:"pendingCount"`
	ApprovedCount     int64  `json:"approvedCount"`
	RejectedCount     int64  `json:"rejectedCount"`
	LastUpdated       string `json:"lastUpdated"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
	Recount(ctx context.Context) (*StatisticsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics returns the stored summary, computing it on first use.
func (s *statisticsService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	stats, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return s.Recount(ctx)
	}
	if err != nil {
		return nil, err
	}
	return toStatisticsResponse(stats), nil
}

func (s *statisticsService) Recount(ctx context.Context) (*StatisticsResponse, error) {
	stats, err := s.repo.Recount(ctx)
	if err != nil {
		return nil, err
	}
	return toStatisticsResponse(stats), nil
}

func toStatisticsResponse(stats *model.ApplicationStats) *StatisticsResponse {
	resp := &StatisticsResponse{
		TotalApplications: stats.TotalApplications,
		PendingCount:      stats.PendingCount,
		ApprovedCount:     stats.ApprovedCount,
		RejectedCount:     stats.RejectedCount,
	}
	if !stats.LastUpdated.IsZero() {
		resp.LastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
	}
	return resp
}
