package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel handles the numeric identity and audit timestamps.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate keeps stored timestamps in UTC regardless of the server zone.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	return
}
