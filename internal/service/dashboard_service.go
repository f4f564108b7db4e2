package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type dashboardService struct {
	reportRepo repository.ReportRepository
	clientRepo repository.ClientRepository
	now        func() time.Time
}

func NewDashboardService(rRepo repository.ReportRepository, cRepo repository.ClientRepository) DashboardService {
	return &dashboardService{reportRepo: rRepo, clientRepo: cRepo, now: time.Now}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	clients, err := s.clientRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	inventory, err := s.reportRepo.InventoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory stats: %w", err)
	}

	today := StartOfDay(s.now())
	totals, err := s.reportRepo.PeriodTotals(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate today's sales: %w", err)
	}

	return &model.DashboardStats{
		TotalClients:       clients,
		TotalProducts:      inventory.TotalProducts,
		LowStockCount:      inventory.LowStockCount,
		InventoryValuation: inventory.Valuation,
		TodaySalesCount:    totals.SalesCount,
		TodayRevenue:       totals.TotalSalesAmount,
	}, nil
}
