package dto

import (
	"time"

	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	IconURL        string `json:"icon_url,omitempty"`
	Position       int    `json:"position"`
	AttemptCeiling int    `json:"attempt_ceiling"`
}

// TestSummaryDTO is one row of a catalog listing, evaluated for the caller.
type TestSummaryDTO struct {
	ID              uint              `json:"id"`
	CategoryID      uint              `json:"category_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	IsPremium       bool              `json:"is_premium"`
	Price           decimal.Decimal   `json:"price"`
	DurationMinutes int               `json:"duration_minutes"`
	Position        int               `json:"position"`
	Verdict         evaluator.Verdict `json:"verdict"`
	IsFreeTrial     bool              `json:"is_free_trial"`
	AttemptsUsed    int               `json:"attempts_used"`
	AttemptsLeft    int               `json:"attempts_left"`
	AttemptCeiling  int               `json:"attempt_ceiling"`
	IsFavorite      bool              `json:"is_favorite"`
}

type TestListingDTO struct {
	Category *CategoryDTO     `json:"category,omitempty"`
	Tests    []TestSummaryDTO `json:"tests"`
	// Upsell is the cheapest plan, present when any listed test is denied.
	Upsell *PlanDTO `json:"upsell,omitempty"`
	// Notice is set when part of the listing could not be evaluated (e.g. attempt
	// counts were unavailable) and the client should show a dismissible message.
	Notice string `json:"notice,omitempty"`
}

type TestDetailDTO struct {
	TestSummaryDTO
	QuestionCount int      `json:"question_count"`
	Upsell        *PlanDTO `json:"upsell,omitempty"`
	Notice        string   `json:"notice,omitempty"`
}

type BannerDTO struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

type PlanDTO struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	Active       bool            `json:"active"`
}

type NotificationDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Broadcast bool      `json:"broadcast"`
	CreatedAt time.Time `json:"created_at"`
}
