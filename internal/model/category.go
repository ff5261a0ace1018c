package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	Position    int    `json:"position" gorm:"not null;default:0;index"`
	// AttemptCeiling overrides the configured default when positive.
	AttemptCeiling int            `json:"attempt_ceiling" gorm:"not null;default:0"`
	Tests          []Test         `json:"tests,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// CeilingOr returns the category's own ceiling or def.
func (c Category) CeilingOr(def int) int {
	if c.AttemptCeiling > 0 {
		return c.AttemptCeiling
	}
	return def
}
