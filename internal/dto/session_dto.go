package dto

import (
	"time"

	"github.com/lshigami/examprep/internal/evaluator"
)

// SessionQuestionDTO is a question as shown during a timed session, without its answer.
type SessionQuestionDTO struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SessionStartDTO struct {
	TestID          uint                 `json:"test_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	Verdict         evaluator.Verdict    `json:"verdict"`
	AttemptsUsed    int                  `json:"attempts_used"`
	AttemptsLeft    int                  `json:"attempts_left"`
	Questions       []SessionQuestionDTO `json:"questions"`
}

// SubmissionRequest carries the sparse answer map keyed by question index, e.g.
// {"answers": {"0": 1, "2": "1"}}.
type SubmissionRequest struct {
	Answers evaluator.AnswerMap `json:"answers"`
}

type ReviewItemDTO struct {
	Index         int              `json:"index"`
	Question      string           `json:"question"`
	Options       []string         `json:"options"`
	Status        evaluator.Status `json:"status"`
	Selected      *int             `json:"selected,omitempty"`
	CorrectAnswer int              `json:"correct_answer"`
	Explanation   string           `json:"explanation,omitempty"`
}

type SubmissionResultDTO struct {
	TestID  uint                   `json:"test_id"`
	Summary evaluator.ScoreSummary `json:"summary"`
	Review  []ReviewItemDTO        `json:"review"`
}

type TestResultDTO struct {
	ID            uint      `json:"id"`
	TestID        uint      `json:"test_id"`
	TestTitle     string    `json:"test_title,omitempty"`
	AttemptNumber int       `json:"attempt_number"`
	Correct       int       `json:"correct"`
	Incorrect     int       `json:"incorrect"`
	Unattempted   int       `json:"unattempted"`
	Total         int       `json:"total"`
	ScorePct      int       `json:"score_pct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type AttemptStatusDTO struct {
	TestID       uint `json:"test_id"`
	AttemptsUsed int  `json:"attempts_used"`
	AttemptsLeft int  `json:"attempts_left"`
	Ceiling      int  `json:"ceiling"`
	// ServerLogged counts the sessions recorded server side; display only.
	ServerLogged int `json:"server_logged"`
}
