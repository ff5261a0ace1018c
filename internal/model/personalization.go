package model

import "time"

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Subject   string    `json:"subject" gorm:"not null;uniqueIndex:idx_favorite_subject_test"`
	TestID    uint      `json:"test_id" gorm:"not null;uniqueIndex:idx_favorite_subject_test"`
	CreatedAt time.Time `json:"created_at"`
}

type Banner struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	LinkURL   string    `json:"link_url,omitempty"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	Active    bool      `json:"active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification with an empty UserID is a broadcast.
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    string    `json:"user_id,omitempty" gorm:"index"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
