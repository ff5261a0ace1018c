package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/shopspring/decimal"
)

// FlexIndex accepts an option index written as a JSON number or a numeric string.
type FlexIndex int

func (f *FlexIndex) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n, ok := evaluator.CanonicalIndex(v)
	if !ok {
		return fmt.Errorf("correct_answer %s is not an option index", string(b))
	}
	*f = FlexIndex(n)
	return nil
}

type CategoryUpsertDTO struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	IconURL        string `json:"icon_url"`
	Position       int    `json:"position"`
	AttemptCeiling int    `json:"attempt_ceiling" binding:"min=0"`
}

type QuestionCreateDTO struct {
	Question      string    `json:"question" binding:"required"`
	Options       []string  `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswer FlexIndex `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	// OrderInTest is optional; zero appends after the last question.
	OrderInTest int `json:"order_in_test" binding:"min=0"`
}

type TestCreateDTO struct {
	CategoryID      uint                `json:"category_id" binding:"required"`
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description"`
	IsPremium       bool                `json:"is_premium"`
	Price           decimal.Decimal     `json:"price"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,gt=0"`
	Position        int                 `json:"position"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}

type TestUpdateDTO struct {
	CategoryID      *uint            `json:"category_id"`
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	IsPremium       *bool            `json:"is_premium"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes"`
	Position        *int             `json:"position"`
}

type AdminQuestionDTO struct {
	ID            uint     `json:"id"`
	TestID        uint     `json:"test_id"`
	OrderInTest   int      `json:"order_in_test"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type AdminTestDTO struct {
	ID              uint               `json:"id"`
	CategoryID      uint               `json:"category_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	IsPremium       bool               `json:"is_premium"`
	Price           decimal.Decimal    `json:"price"`
	DurationMinutes int                `json:"duration_minutes"`
	Position        int                `json:"position"`
	Questions       []AdminQuestionDTO `json:"questions"`
}

type PlanUpsertDTO struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days" binding:"required,gt=0"`
	Active       *bool           `json:"active"`
}

type BannerUpsertDTO struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url" binding:"required,url"`
	LinkURL  string `json:"link_url" binding:"omitempty,url"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

type NotificationCreateDTO struct {
	// UserID empty broadcasts to everyone.
	UserID string `json:"user_id"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

type AdminUserDTO struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Phone      string               `json:"phone,omitempty"`
	Role       string               `json:"role"`
	Blocked    bool                 `json:"blocked"`
	Membership *MembershipStatusDTO `json:"membership,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

type UserUpdateDTO struct {
	Name    *string `json:"name"`
	Role    *string `json:"role" binding:"omitempty,oneof=user admin"`
	Blocked *bool   `json:"blocked"`
}

type GrantMembershipDTO struct {
	PlanID uint `json:"plan_id" binding:"required"`
	// Days overrides the plan's duration when positive.
	Days int `json:"days" binding:"min=0"`
}

type ExplanationDTO struct {
	QuestionID  uint   `json:"question_id"`
	Explanation string `json:"explanation"`
}
