package handler

import (
	"strings"
	"time"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// GenerateFromSale handles POST /api/invoices/from-sale/:saleId
func (h *InvoiceHandler) GenerateFromSale(c *fiber.Ctx) error {
	saleID, ok := parseID(c, "saleId")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	var req service.GenerateInvoiceRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var dueDate *time.Time
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  []string{"DueDate must be a date (YYYY-MM-DD)"},
			})
		}
		dueDate = &d
	}

	manual := ""
	if req.ManualInvoiceNumber != nil {
		manual = *req.ManualInvoiceNumber
	}

	invoice, err := h.service.GenerateInvoice(c.UserContext(), saleID, manual, dueDate)
	if err != nil {
		return writeError(c, err, "An error occurred while generating the invoice")
	}
	return c.Status(fiber.StatusCreated).JSON(invoice.ToResponse())
}

// GetInvoices handles GET /api/invoices
func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	invoices, err := h.service.ListInvoices(c.UserContext())
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving invoices")
	}
	resp := make([]model.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp = append(resp, invoices[i].ToResponse())
	}
	return c.JSON(resp)
}

// GetInvoice handles GET /api/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid invoice ID")
	}
	invoice, err := h.service.GetInvoice(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving the invoice")
	}
	return c.JSON(invoice.ToResponse())
}
