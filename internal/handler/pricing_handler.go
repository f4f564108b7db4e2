package handler

import (
	"strconv"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PricingHandler struct {
	service service.PricingService
}

func NewPricingHandler(s service.PricingService) *PricingHandler {
	return &PricingHandler{service: s}
}

// ResolvePrice handles GET /api/pricing/resolve?clientId&productId
// clientId may be omitted or 0 for the walk-in base price.
func (h *PricingHandler) ResolvePrice(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Query("productId"), 10, 64)
	if err != nil || productID == 0 {
		return badRequest(c, "Query parameter 'productId' is required")
	}
	var clientID uint64
	if raw := c.Query("clientId"); raw != "" {
		clientID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, "Invalid clientId")
		}
	}

	resolved, err := h.service.Resolve(c.UserContext(), uint(clientID), uint(productID))
	if err != nil {
		return writeError(c, err, "An error occurred while resolving the price")
	}
	return c.JSON(resolved)
}

// GetOverrides handles GET /api/clients/:id/prices
func (h *PricingHandler) GetOverrides(c *fiber.Ctx) error {
	clientID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	overrides, err := h.service.ListOverrides(c.UserContext(), clientID)
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving client prices")
	}
	resp := make([]model.OverrideResponse, 0, len(overrides))
	for i := range overrides {
		resp = append(resp, overrides[i].ToResponse())
	}
	return c.JSON(resp)
}

// SetOverride handles POST /api/clients/:id/prices and reactivates a removed override.
func (h *PricingHandler) SetOverride(c *fiber.Ctx) error {
	clientID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	var req service.SetOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	override, err := h.service.SetOverride(c.UserContext(), clientID, &req)
	if err != nil {
		return writeError(c, err, "An error occurred while saving the client price")
	}
	return c.JSON(fiber.Map{
		"message":  "Override price set successfully",
		"override": override.ToResponse(),
	})
}

// RemoveOverride handles DELETE /api/clients/:id/prices/:productId
func (h *PricingHandler) RemoveOverride(c *fiber.Ctx) error {
	clientID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.RemoveOverride(c.UserContext(), clientID, productID); err != nil {
		return writeError(c, err, "An error occurred while removing the client price")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
