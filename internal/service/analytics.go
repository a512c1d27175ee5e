package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

const (
	analyticsMonths   = 12
	analyticsTopLimit = 10
)

type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	statsRepo     repository.StatsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, statsRepo repository.StatsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, statsRepo: statsRepo}
}

func (s *AnalyticsService) Overview(ctx context.Context) (*dto.AnalyticsResponse, error) {
	monthly, err := s.analyticsRepo.MonthlySeries(ctx, analyticsMonths)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	topFarmers, err := s.analyticsRepo.TopFarmers(ctx, analyticsTopLimit)
	if err != nil {
		return nil, fmt.Errorf("top farmers: %w", err)
	}
	categories, err := s.analyticsRepo.CategoryPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("category performance: %w", err)
	}
	statuses, err := s.analyticsRepo.OrderStatusDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("order status distribution: %w", err)
	}

	return &dto.AnalyticsResponse{
		Monthly:     *monthly,
		TopFarmers:  topFarmers,
		Categories:  categories,
		OrderStatus: statuses,
	}, nil
}

func (s *AnalyticsService) FarmerStats(ctx context.Context, farmerID uuid.UUID) (*dto.FarmerStatsResponse, error) {
	return s.statsRepo.FarmerStats(ctx, farmerID)
}

func (s *AnalyticsService) BuyerStats(ctx context.Context, buyerID uuid.UUID) (*dto.BuyerStatsResponse, error) {
	return s.statsRepo.BuyerStats(ctx, buyerID)
}
