package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PurchasePending   = "pending"
	PurchasePaid      = "paid"
	PurchaseFailed    = "failed"
	PurchaseCancelled = "cancelled"
)

// Purchase is one checkout started for a plan. ID doubles as the checkout order id.
type Purchase struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	UserID        string          `json:"user_id" gorm:"not null;index"`
	PlanID        uint            `json:"plan_id" gorm:"not null"`
	Plan          *Plan           `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status        string          `json:"status" gorm:"not null;default:'pending'"`
	PaymentID     string          `json:"payment_id,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty" gorm:"type:text"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
