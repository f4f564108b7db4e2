package handler

import (
	"github.com/Lagare24/cris-bel-water/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	service service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{service: s}
}

// GetClients handles GET /api/clients?includeInactive=true
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	clients, err := h.service.ListClients(c.UserContext(), includeInactive(c))
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving clients")
	}
	return c.JSON(clients)
}

func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	client, err := h.service.GetClient(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "An error occurred while retrieving the client")
	}
	return c.JSON(client)
}

func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req service.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	client, err := h.service.CreateClient(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err, "An error occurred while creating the client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	var req service.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	client, err := h.service.UpdateClient(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err, "An error occurred while updating the client")
	}
	return c.JSON(client)
}

// DeleteClient soft-deletes; the walk-in client is refused.
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	if err := h.service.DeleteClient(c.UserContext(), id); err != nil {
		return writeError(c, err, "An error occurred while deleting the client")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDelete handles POST /api/clients/bulk-delete
func (h *ClientHandler) BulkDelete(c *fiber.Ctx) error {
	var req service.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	result, err := h.service.BulkDelete(c.UserContext(), req.IDs)
	if err != nil {
		return writeError(c, err, "An error occurred while deleting clients")
	}
	return c.JSON(result)
}
