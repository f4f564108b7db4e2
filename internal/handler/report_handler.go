package handler

import (
	"strconv"

	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSalesReport handles GET /api/reports/sales?startDate&endDate&clientId
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	start, err := optionalDate(c, "startDate")
	if err != nil {
		return badRequest(c, "Invalid startDate, expected YYYY-MM-DD")
	}
	end, err := optionalDate(c, "endDate")
	if err != nil {
		return badRequest(c, "Invalid endDate, expected YYYY-MM-DD")
	}
	clientID, err := optionalUint(c, "clientId")
	if err != nil {
		return badRequest(c, "Invalid clientId")
	}

	report, err := h.service.SalesReport(c.UserContext(), service.SalesReportQuery{
		StartDate: start,
		EndDate:   end,
		ClientID:  clientID,
	})
	if err != nil {
		return writeError(c, err, "An error occurred while generating the sales report")
	}
	return c.JSON(report)
}

// GetDailySales handles GET /api/reports/daily-sales?date=YYYY-MM-DD
func (h *ReportHandler) GetDailySales(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return badRequest(c, "Query parameter 'date' is required (YYYY-MM-DD)")
	}
	date, err := parseDate(raw)
	if err != nil {
		return badRequest(c, "Query parameter 'date' is required (YYYY-MM-DD)")
	}

	report, err := h.service.DailySales(c.UserContext(), date)
	if err != nil {
		return writeError(c, err, "An error occurred while generating the daily sales report")
	}
	return c.JSON(report)
}

// GetMonthlySales handles GET /api/reports/monthly-sales?year&month
func (h *ReportHandler) GetMonthlySales(c *fiber.Ctx) error {
	year, yErr := strconv.Atoi(c.Query("year"))
	month, mErr := strconv.Atoi(c.Query("month"))
	if yErr != nil || mErr != nil {
		return badRequest(c, "Query parameters 'year' and 'month' are required (month 1-12)")
	}

	report, err := h.service.MonthlySales(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, err, "An error occurred while generating the monthly sales report")
	}
	return c.JSON(report)
}

// GetTopClients handles GET /api/reports/top-clients?limit=N
func (h *ReportHandler) GetTopClients(c *fiber.Ctx) error {
	limit, ok := queryLimit(c)
	if !ok {
		return badRequest(c, "limit must be an integer")
	}
	clients, err := h.service.TopClients(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err, "An error occurred while generating the top clients report")
	}
	return c.JSON(clients)
}

// GetTopProducts handles GET /api/reports/top-products?limit=N
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	limit, ok := queryLimit(c)
	if !ok {
		return badRequest(c, "limit must be an integer")
	}
	products, err := h.service.TopProducts(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err, "An error occurred while generating the top products report")
	}
	return c.JSON(products)
}

func queryLimit(c *fiber.Ctx) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return service.DefaultReportLimit, true
	}
	limit, err := strconv.Atoi(raw)
	return limit, err == nil
}
