package evaluator

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type Question struct {
	Text          string
	Options       []string
	CorrectAnswer int
	Explanation   string
}

// AnswerMap maps a question's position to the selected option. Values are whatever the
// client serialized (ints, floats, numeric strings); a missing key is unattempted.
type AnswerMap map[int]any

type Status string

const (
	StatusCorrect     Status = "correct"
	StatusIncorrect   Status = "incorrect"
	StatusUnattempted Status = "unattempted"
)

type QuestionResult struct {
	Index         int    `json:"index"`
	Status        Status `json:"status"`
	Selected      *int   `json:"selected,omitempty"`
	CorrectAnswer int    `json:"correct_answer"`
}

type ScoreSummary struct {
	Correct        int `json:"correct"`
	Incorrect      int `json:"incorrect"`
	Unattempted    int `json:"unattempted"`
	Total          int `json:"total"`
	CorrectPct     int `json:"correct_pct"`
	IncorrectPct   int `json:"incorrect_pct"`
	UnattemptedPct int `json:"unattempted_pct"`
}

// CanonicalIndex converts an answer value to an option index. Integral numbers of any
// kind and numeric strings convert; everything else does not.
func CanonicalIndex(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		return indexFromString(x)
	case json.Number:
		return indexFromString(x.String())
	case bool:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt32 {
			return 0, false
		}
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return indexFromFloat(rv.Float())
	}
	return 0, false
}

func indexFromString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return indexFromFloat(f)
}

func indexFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func classifyOne(i int, q Question, answers AnswerMap) QuestionResult {
	res := QuestionResult{Index: i, CorrectAnswer: q.CorrectAnswer, Status: StatusUnattempted}
	raw, ok := answers[i]
	if !ok {
		return res
	}
	selected, ok := CanonicalIndex(raw)
	if !ok {
		res.Status = StatusIncorrect
		return res
	}
	res.Selected = &selected
	if selected == q.CorrectAnswer {
		res.Status = StatusCorrect
	} else {
		res.Status = StatusIncorrect
	}
	return res
}

// Classify returns one result per question, in question order.
func Classify(questions []Question, answers AnswerMap) []QuestionResult {
	out := make([]QuestionResult, len(questions))
	for i, q := range questions {
		out[i] = classifyOne(i, q, answers)
	}
	return out
}

func Grade(questions []Question, answers AnswerMap) ScoreSummary {
	s := ScoreSummary{Total: len(questions)}
	for i, q := range questions {
		switch classifyOne(i, q, answers).Status {
		case StatusCorrect:
			s.Correct++
		case StatusIncorrect:
			s.Incorrect++
		default:
			s.Unattempted++
		}
	}
	s.CorrectPct = Percent(s.Correct, s.Total)
	s.IncorrectPct = Percent(s.Incorrect, s.Total)
	s.UnattemptedPct = Percent(s.Unattempted, s.Total)
	return s
}

// Percent is round(100*count/total), 0 for an empty total.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
