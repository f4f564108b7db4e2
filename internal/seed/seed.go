package seed

import (
	"context"
	"fmt"

	"github.com/Lagare24/cris-bel-water/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalkInClient must be the first client ever inserted so it receives id 1.
func WalkInClient() model.Client {
	return model.Client{
		Name:     "Walk-in Customer",
		Email:    "walkin@waterrefill.com",
		Phone:    "000-0000",
		Address:  "N/A",
		IsActive: true,
	}
}

func sampleClients() []model.Client {
	return []model.Client{
		{Name: "ABC Corporation", Email: "contact@abc.com", Phone: "555-0101", Address: "123 Business St", IsActive: true},
		{Name: "XYZ Restaurant", Email: "orders@xyz.com", Phone: "555-0102", Address: "456 Food Ave", IsActive: true},
		{Name: "Smith Family", Email: "smith@email.com", Phone: "555-0103", Address: "789 Home Rd", IsActive: true},
		{Name: "Downtown Cafe", Email: "cafe@downtown.com", Phone: "555-0106", Address: "987 Main St", IsActive: true},
	}
}

func defaultProducts() []model.Product {
	return []model.Product{
		{Name: "5-Gallon Refill", Description: "Standard 5-gallon water refill", Price: decimal.RequireFromString("35.00"), Quantity: 500, IsActive: true},
		{Name: "3-Gallon Refill", Description: "Medium 3-gallon water refill", Price: decimal.RequireFromString("25.00"), Quantity: 300, IsActive: true},
		{Name: "1-Gallon Refill", Description: "Small 1-gallon water refill", Price: decimal.RequireFromString("15.00"), Quantity: 200, IsActive: true},
		{Name: "500ml Bottle", Description: "Purified water in 500ml bottle", Price: decimal.RequireFromString("10.00"), Quantity: 1000, IsActive: true},
		{Name: "1-Liter Bottle", Description: "Purified water in 1-liter bottle", Price: decimal.RequireFromString("18.00"), Quantity: 800, IsActive: true},
	}
}

// Defaults seeds clients and products into empty tables. Tables that
// already hold rows are left alone, so it is safe to run on every boot.
func Defaults(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedClients(tx); err != nil {
			return err
		}
		return seedProducts(tx)
	})
}

func seedClients(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Client{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count clients: %w", err)
	}
	if count > 0 {
		return nil
	}

	walkIn := WalkInClient()
	if err := tx.Create(&walkIn).Error; err != nil {
		return fmt.Errorf("failed to seed walk-in client: %w", err)
	}
	if walkIn.ID != model.WalkInClientID {
		log.Warn().Uint("id", walkIn.ID).Msg("walk-in client did not receive the reserved id")
	}

	clients := sampleClients()
	if err := tx.Create(&clients).Error; err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}
	log.Info().Int("count", len(clients)+1).Msg("seeded default clients")
	return nil
}

func seedProducts(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := defaultProducts()
	if err := tx.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	log.Info().Int("count", len(products)).Msg("seeded default products")
	return nil
}
