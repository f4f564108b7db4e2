package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is created together with its items in one transaction and never mutated afterwards.
type Sale struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    *uint           `gorm:"index" json:"clientId"`
	Client      *Client         `json:"client,omitempty"`
	SaleDate    time.Time       `gorm:"not null;index" json:"saleDate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalAmount"`
	Items       []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SaleID    uint            `gorm:"not null;index" json:"saleId"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unitPrice"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
}

// SaleResponse is the public projection of a sale.
type SaleResponse struct {
	ID          uint               `json:"id"`
	ClientID    *uint              `json:"clientId"`
	Client      *ClientSummary     `json:"client"`
	SaleDate    time.Time          `json:"saleDate"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []SaleItemResponse `json:"items"`
}

type SaleItemResponse struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func (s *Sale) ToResponse() SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return SaleResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Client:      s.Client.Summary(),
		SaleDate:    s.SaleDate,
		TotalAmount: s.TotalAmount,
		Items:       items,
	}
}

// ItemsTotal recomputes quantity x unit price over the loaded items.
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(LineTotal(it.Quantity, it.UnitPrice))
	}
	return RoundMoney(total)
}
