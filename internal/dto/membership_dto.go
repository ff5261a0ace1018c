package dto

import (
	"time"

	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/payment"
	"github.com/shopspring/decimal"
)

const (
	MembershipNone    = "none"
	MembershipActive  = "active"
	MembershipExpired = "expired"
)

type MembershipStatusDTO struct {
	Status     string                `json:"status"`
	Membership *evaluator.Membership `json:"membership,omitempty"`
}

type PurchaseRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type PurchaseStartDTO struct {
	PurchaseID string          `json:"purchase_id"`
	Amount     decimal.Decimal `json:"amount"`
	Plan       PlanDTO         `json:"plan"`
	Checkout   payment.Session `json:"checkout"`
}

type PurchaseDTO struct {
	ID            string          `json:"id"`
	PlanID        uint            `json:"plan_id"`
	PlanName      string          `json:"plan_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentID     string          `json:"payment_id,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
