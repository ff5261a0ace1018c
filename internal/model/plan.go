package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Plan struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	DurationDays int             `json:"duration_days" gorm:"not null"`
	Active       bool            `json:"active" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
