package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email" gorm:"index"`
	Phone   string `json:"phone,omitempty"`
	Role    string `json:"role" gorm:"not null;default:'user'"`
	Blocked bool   `json:"blocked" gorm:"not null;default:false"`
	// Membership is stored as written by the purchase flow or the admin console and is
	// decoded by evaluator.ResolveMembership.
	Membership datatypes.JSON `json:"membership,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
