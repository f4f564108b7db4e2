package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

// Only InvoiceUnpaid is produced by generation; the other states are reserved.
const (
	InvoiceUnpaid    InvoiceStatus = "Unpaid"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_invoices_invoice_number" json:"invoiceNumber"`
	SaleID        uint            `gorm:"not null;uniqueIndex:uq_invoices_sale_id" json:"saleId"`
	Sale          *Sale           `json:"-"`
	ClientID      *uint           `gorm:"index" json:"clientId"`
	Client        *Client         `json:"client,omitempty"`
	IssueDate     time.Time       `gorm:"not null;index" json:"issueDate"`
	DueDate       *time.Time      `json:"dueDate"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalAmount"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InvoiceItem snapshots a sale line; it is never updated after generation.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoiceId"`
	ProductID   uint            `gorm:"not null" json:"productId"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unitPrice"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"lineTotal"`
}

type InvoiceResponse struct {
	ID            uint                  `json:"id"`
	InvoiceNumber string                `json:"invoiceNumber"`
	SaleID        uint                  `json:"saleId"`
	ClientID      *uint                 `json:"clientId"`
	IssueDate     time.Time             `json:"issueDate"`
	DueDate       *time.Time            `json:"dueDate"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Status        InvoiceStatus         `json:"status"`
	Client        *ClientSummary        `json:"client"`
	Items         []InvoiceItemResponse `json:"items"`
}

type InvoiceItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

func (i *Invoice) ToResponse() InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(i.Items))
	for _, it := range i.Items {
		items = append(items, InvoiceItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		SaleID:        i.SaleID,
		ClientID:      i.ClientID,
		IssueDate:     i.IssueDate,
		DueDate:       i.DueDate,
		TotalAmount:   i.TotalAmount,
		Status:        i.Status,
		Client:        i.Client.Summary(),
		Items:         items,
	}
}
