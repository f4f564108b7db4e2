package model

// WalkInClientID is the reserved system client used for anonymous sales.
const WalkInClientID uint = 1

// WalkInLabel is used wherever a sale has no named client.
const WalkInLabel = "Walk-in"

type Client struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex:uq_clients_email;not null" json:"email"`
	Phone    string `gorm:"type:varchar(50);not null" json:"phone"`
	Address  string `gorm:"type:varchar(500)" json:"address"`
	IsActive bool   `gorm:"not null;index" json:"isActive"`
}

func (c *Client) IsWalkIn() bool {
	return c != nil && c.ID == WalkInClientID
}

// ClientSummary is the compact client projection embedded in sales and invoices.
type ClientSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Summary returns nil for a nil client so callers can embed it directly.
func (c *Client) Summary() *ClientSummary {
	if c == nil {
		return nil
	}
	return &ClientSummary{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}
