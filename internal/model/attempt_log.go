package model

import "time"

// AttemptLog records each started session. It is display telemetry; the attempt ceiling
// is enforced by the key/value counter.
type AttemptLog struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Subject       string    `json:"subject" gorm:"not null;index:idx_attempt_subject_test"`
	TestID        uint      `json:"test_id" gorm:"not null;index:idx_attempt_subject_test"`
	CategoryID    uint      `json:"category_id" gorm:"not null"`
	AttemptNumber int       `json:"attempt_number" gorm:"not null"`
	FreeTrial     bool      `json:"free_trial" gorm:"not null;default:false"`
	StartedAt     time.Time `json:"started_at" gorm:"autoCreateTime"`
}
