package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientProductPrice is a per-client price override for one product.
// At most one row exists per (client, product); removal flips IsActive.
type ClientProductPrice struct {
	BaseModel
	ClientID  uint            `gorm:"not null;uniqueIndex:uq_client_product" json:"clientId"`
	Client    *Client         `json:"-"`
	ProductID uint            `gorm:"not null;uniqueIndex:uq_client_product" json:"productId"`
	Product   *Product        `json:"-"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	IsActive  bool            `gorm:"not null" json:"isActive"`
}

type OverrideResponse struct {
	ID          uint            `json:"id"`
	ClientID    uint            `json:"clientId"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (o *ClientProductPrice) ToResponse() OverrideResponse {
	resp := OverrideResponse{
		ID:        o.ID,
		ClientID:  o.ClientID,
		ProductID: o.ProductID,
		Price:     o.Price,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Product != nil {
		resp.ProductName = o.Product.Name
	}
	return resp
}
