package handler

import (
	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// CreateSale handles POST /api/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sale, replayed, err := h.service.CreateSale(c.UserContext(), &req, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return writeError(c, err, "An error occurred while creating the sale")
	}

	if replayed {
		c.Set(ReplayedHeader, "true")
		return c.Status(fiber.StatusOK).JSON(sale.ToResponse())
	}
	return c.Status(fiber.StatusCreated).JSON(sale.ToResponse())
}

// GetSales handles GET /api/sales?startDate&endDate&clientId
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
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

	filter := repository.SaleFilter{ClientID: clientID}
	if start != nil {
		from := service.StartOfDay(*start)
		filter.From = &from
	}
	if end != nil {
		to := service.StartOfDay(*end).AddDate(0, 0, 1)
		filter.To = &to
	}

	sales, err := h.service.ListSales(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving sales")
	}

	resp := make([]model.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, sales[i].ToResponse())
	}
	return c.JSON(resp)
}

// GetSale handles GET /api/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving the sale")
	}
	return c.JSON(sale.ToResponse())
}
