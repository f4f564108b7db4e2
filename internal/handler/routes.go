package handler

import (
	"errors"

	"github.com/Lagare24/cris-bel-water/internal/middleware"
	"github.com/Lagare24/cris-bel-water/internal/ws"
	"github.com/Lagare24/cris-bel-water/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers groups every HTTP handler the server exposes.
type Handlers struct {
	Sales     *SaleHandler
	Invoices  *InvoiceHandler
	Reports   *ReportHandler
	Clients   *ClientHandler
	Products  *ProductHandler
	Pricing   *PricingHandler
	Dashboard *DashboardHandler
}

type AppOptions struct {
	AppName     string
	CORSOrigins string
	Tokens      *jwt.Manager
	// Hub is optional; /ws is only mounted when set.
	Hub *ws.Hub
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(h *Handlers, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	if opts.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	RegisterRoutes(app, h, opts.Tokens)

	if opts.Hub != nil {
		registerWebSocket(app, opts.Hub)
	}

	return app
}

func RegisterRoutes(app *fiber.App, h *Handlers, tokens *jwt.Manager) {
	api := app.Group("/api")

	// Sales
	api.Post("/sales", h.Sales.CreateSale)
	api.Get("/sales", h.Sales.GetSales)
	api.Get("/sales/:id", h.Sales.GetSale)

	// Invoices
	api.Post("/invoices/from-sale/:saleId", h.Invoices.GenerateFromSale)
	api.Get("/invoices", h.Invoices.GetInvoices)
	api.Get("/invoices/:id", h.Invoices.GetInvoice)

	// Clients
	api.Post("/clients/bulk-delete", h.Clients.BulkDelete)
	api.Get("/clients", h.Clients.GetClients)
	api.Get("/clients/:id", h.Clients.GetClient)
	api.Post("/clients", h.Clients.CreateClient)
	api.Put("/clients/:id", h.Clients.UpdateClient)
	api.Delete("/clients/:id", h.Clients.DeleteClient)

	// Client price overrides
	api.Get("/clients/:id/prices", h.Pricing.GetOverrides)
	api.Post("/clients/:id/prices", h.Pricing.SetOverride)
	api.Delete("/clients/:id/prices/:productId", h.Pricing.RemoveOverride)
	api.Get("/pricing/resolve", h.Pricing.ResolvePrice)

	// Products
	api.Get("/products", h.Products.GetProducts)
	api.Get("/products/:id", h.Products.GetProduct)
	api.Post("/products", h.Products.CreateProduct)
	api.Put("/products/:id", h.Products.UpdateProduct)
	api.Delete("/products/:id", h.Products.DeleteProduct)

	api.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)

	// Reports need an Admin or Staff token
	reports := api.Group("/reports",
		middleware.RequireAuth(tokens),
		middleware.RequireRole(jwt.RoleAdmin, jwt.RoleStaff),
	)
	reports.Get("/sales", h.Reports.GetSalesReport)
	reports.Get("/daily-sales", h.Reports.GetDailySales)
	reports.Get("/monthly-sales", h.Reports.GetMonthlySales)
	reports.Get("/top-clients", h.Reports.GetTopClients)
	reports.Get("/top-products", h.Reports.GetTopProducts)
}

func registerWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

// errorHandler renders errors that escape handlers (unknown routes, panics
// turned into errors by recover) as {message}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		return writeError(c, err, "An unexpected error occurred")
	}
	return c.Status(code).JSON(fiber.Map{"message": fe.Message})
}
