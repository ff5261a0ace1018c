package model

import "time"

type TestResult struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Subject       string    `json:"subject" gorm:"not null;index"`
	TestID        uint      `json:"test_id" gorm:"not null;index"`
	Test          *Test     `json:"test,omitempty" gorm:"foreignKey:TestID"`
	AttemptNumber int       `json:"attempt_number"`
	Correct       int       `json:"correct"`
	Incorrect     int       `json:"incorrect"`
	Unattempted   int       `json:"unattempted"`
	Total         int       `json:"total"`
	ScorePct      int       `json:"score_pct"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}
