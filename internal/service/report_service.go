package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"

	"github.com/shopspring/decimal"
)

const DefaultReportLimit = 10

// SalesReportQuery bounds are calendar days (UTC), both inclusive.
type SalesReportQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	ClientID  *uint
}

type ReportService interface {
	SalesReport(ctx context.Context, q SalesReportQuery) (*model.SalesReport, error)
	DailySales(ctx context.Context, date time.Time) (*model.DailySalesReport, error)
	MonthlySales(ctx context.Context, year, month int) (*model.MonthlySalesReport, error)
	TopClients(ctx context.Context, limit int) ([]model.TopClient, error)
	TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
}

func NewReportService(rRepo repository.ReportRepository, sRepo repository.SaleRepository, cRepo repository.ClientRepository, pRepo repository.ProductRepository) ReportService {
	return &reportService{
		reportRepo:  rRepo,
		saleRepo:    sRepo,
		clientRepo:  cRepo,
		productRepo: pRepo,
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SalesReport lists sales newest first, skipping sales of inactive clients
// and sales that contain any inactive product.
func (s *reportService) SalesReport(ctx context.Context, q SalesReportQuery) (*model.SalesReport, error) {
	filter := repository.SaleFilter{ClientID: q.ClientID}
	if q.StartDate != nil {
		from := StartOfDay(*q.StartDate)
		filter.From = &from
	}
	if q.EndDate != nil {
		to := StartOfDay(*q.EndDate).AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, ValidationError("Validation failed", "startDate must not be after endDate")
	}

	sales, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	report := &model.SalesReport{
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		ClientID:     q.ClientID,
		TotalRevenue: decimal.Zero,
		Sales:        []model.SalesReportItem{},
	}

	for _, sale := range sales {
		if sale.Client != nil && !sale.Client.IsActive {
			continue
		}
		if hasInactiveProduct(sale.Items) {
			continue
		}

		clientName := model.WalkInLabel
		if sale.Client != nil {
			clientName = sale.Client.Name
		}
		for _, it := range sale.Items {
			report.TotalItemsSold += it.Quantity
		}
		report.TotalSales++
		report.TotalRevenue = report.TotalRevenue.Add(sale.TotalAmount)
		report.Sales = append(report.Sales, model.SalesReportItem{
			SaleID:      sale.ID,
			SaleDate:    sale.SaleDate,
			ClientID:    sale.ClientID,
			ClientName:  clientName,
			TotalAmount: sale.TotalAmount,
			ItemCount:   len(sale.Items),
		})
	}
	report.TotalRevenue = model.RoundMoney(report.TotalRevenue)

	return report, nil
}

func hasInactiveProduct(items []model.SaleItem) bool {
	for _, it := range items {
		if it.Product != nil && !it.Product.IsActive {
			return true
		}
	}
	return false
}

func (s *reportService) DailySales(ctx context.Context, date time.Time) (*model.DailySalesReport, error) {
	from := StartOfDay(date)
	totals, err := s.reportRepo.PeriodTotals(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	return &model.DailySalesReport{
		Date:         from.Format("2006-01-02"),
		PeriodTotals: *totals,
	}, nil
}

func (s *reportService) MonthlySales(ctx context.Context, year, month int) (*model.MonthlySalesReport, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, ValidationError("Query parameters 'year' and 'month' are required (month 1-12)")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	totals, err := s.reportRepo.PeriodTotals(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	return &model.MonthlySalesReport{
		Year:         year,
		Month:        month,
		PeriodTotals: *totals,
	}, nil
}

func (s *reportService) TopClients(ctx context.Context, limit int) ([]model.TopClient, error) {
	if limit <= 0 {
		return nil, ValidationError("limit must be greater than 0")
	}

	rows, err := s.reportRepo.TopClients(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top clients: %w", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		if r.ClientID != nil {
			ids = append(ids, *r.ClientID)
		}
	}
	clients, err := s.clientRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	names := make(map[uint]string, len(clients))
	for _, c := range clients {
		if c.IsActive {
			names[c.ID] = c.Name
		}
	}

	result := make([]model.TopClient, 0, len(rows))
	for _, r := range rows {
		name := model.WalkInLabel
		if r.ClientID != nil {
			if n, ok := names[*r.ClientID]; ok {
				name = n
			} else {
				name = model.UnknownLabel
			}
		}
		result = append(result, model.TopClient{
			ClientID:    r.ClientID,
			ClientName:  name,
			SalesCount:  r.SalesCount,
			TotalAmount: model.RoundMoney(r.Revenue),
		})
	}
	return result, nil
}

func (s *reportService) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	if limit <= 0 {
		return nil, ValidationError("limit must be greater than 0")
	}

	rows, err := s.reportRepo.TopProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		if p.IsActive {
			names[p.ID] = p.Name
		}
	}

	result := make([]model.TopProduct, 0, len(rows))
	for _, r := range rows {
		name, ok := names[r.ProductID]
		if !ok {
			name = model.UnknownLabel
		}
		result = append(result, model.TopProduct{
			ProductID:     r.ProductID,
			ProductName:   name,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  model.RoundMoney(r.Revenue),
		})
	}
	return result, nil
}
