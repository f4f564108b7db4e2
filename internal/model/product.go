package model

import "github.com/shopspring/decimal"

// LowStockThreshold marks products whose stock count is considered low.
const LowStockThreshold = 10

// UnknownLabel names report rows whose entity is missing or inactive.
const UnknownLabel = "Unknown"

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	// Quantity is the stock count. Sales never decrement it.
	Quantity int  `gorm:"not null;default:0" json:"quantity"`
	IsActive bool `gorm:"not null;index" json:"isActive"`
}
