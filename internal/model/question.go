package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TestID        uint           `json:"test_id" gorm:"not null;index"`
	OrderInTest   int            `json:"order_in_test" gorm:"not null"`
	Text          string         `json:"question" gorm:"type:text;not null"`
	Options       []string       `json:"options" gorm:"serializer:json;type:text;not null"`
	CorrectAnswer int            `json:"correct_answer" gorm:"not null"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
