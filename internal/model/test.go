package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Test struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CategoryID      uint            `json:"category_id" gorm:"not null;index"`
	Category        *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description,omitempty"`
	IsPremium       bool            `json:"is_premium" gorm:"not null;default:false"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	DurationMinutes int             `json:"duration_minutes" gorm:"not null"`
	Position        int             `json:"position" gorm:"not null;default:0;index"`
	Questions       []Question      `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}
