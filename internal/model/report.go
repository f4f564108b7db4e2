package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesReport struct {
	StartDate      *time.Time        `json:"startDate"`
	EndDate        *time.Time        `json:"endDate"`
	ClientID       *uint             `json:"clientId"`
	TotalSales     int               `json:"totalSales"`
	TotalItemsSold int               `json:"totalItemsSold"`
	TotalRevenue   decimal.Decimal   `json:"totalRevenue"`
	Sales          []SalesReportItem `json:"sales"`
}

type SalesReportItem struct {
	SaleID      uint            `json:"saleId"`
	SaleDate    time.Time       `json:"saleDate"`
	ClientID    *uint           `json:"clientId"`
	ClientName  string          `json:"clientName"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// PeriodTotals is shared by the daily and monthly summaries.
type PeriodTotals struct {
	SalesCount         int64           `json:"salesCount"`
	TotalSalesAmount   decimal.Decimal `json:"totalSalesAmount"`
	InvoiceCount       int64           `json:"invoiceCount"`
	TotalInvoiceAmount decimal.Decimal `json:"totalInvoiceAmount"`
	TotalItemsSold     int64           `json:"totalItemsSold"`
}

type DailySalesReport struct {
	Date string `json:"date"`
	PeriodTotals
}

type MonthlySalesReport struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	PeriodTotals
}

type TopClient struct {
	ClientID    *uint           `json:"clientId"`
	ClientName  string          `json:"clientName"`
	SalesCount  int64           `json:"salesCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type TopProduct struct {
	ProductID     uint            `json:"productId"`
	ProductName   string          `json:"productName"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

type DashboardStats struct {
	TotalClients       int64           `json:"totalClients"`
	TotalProducts      int64           `json:"totalProducts"`
	LowStockCount      int64           `json:"lowStockCount"`
	InventoryValuation decimal.Decimal `json:"inventoryValuation"`
	TodaySalesCount    int64           `json:"todaySalesCount"`
	TodayRevenue       decimal.Decimal `json:"todayRevenue"`
}
