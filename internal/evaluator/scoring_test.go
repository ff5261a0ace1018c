package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuestions() []Question {
	return []Question{
		{Text: "q0", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
		{Text: "q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
		{Text: "q2", Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
	}
}

func TestGradeEndToEnd(t *testing.T) {
	qs := threeQuestions()
	answers := AnswerMap{0: 1, 2: 1}

	got := Grade(qs, answers)
	assert.Equal(t, ScoreSummary{
		Correct: 1, Incorrect: 1, Unattempted: 1, Total: 3,
		CorrectPct: 33, IncorrectPct: 33, UnattemptedPct: 33,
	}, got)

	review := Classify(qs, answers)
	require.Len(t, review, 3)
	assert.Equal(t, StatusCorrect, review[0].Status)
	assert.Equal(t, StatusUnattempted, review[1].Status)
	assert.Nil(t, review[1].Selected)
	assert.Equal(t, StatusIncorrect, review[2].Status)
	require.NotNil(t, review[2].Selected)
	assert.Equal(t, 1, *review[2].Selected)
	assert.Equal(t, 2, review[2].CorrectAnswer)
}

func TestGradeEmptyAnswers(t *testing.T) {
	got := Grade(threeQuestions(), AnswerMap{})
	assert.Equal(t, 3, got.Unattempted)
	assert.Equal(t, 0, got.Correct)
	assert.Equal(t, 100, got.UnattemptedPct)

	got = Grade(threeQuestions(), nil)
	assert.Equal(t, 3, got.Unattempted)
}

func TestGradeNoQuestions(t *testing.T) {
	got := Grade(nil, AnswerMap{0: 1})
	assert.Equal(t, ScoreSummary{}, got)
}

func TestGradeIsIdempotent(t *testing.T) {
	qs := threeQuestions()
	answers := AnswerMap{0: "1", 1: 2.0, 2: json.Number("2")}
	first := Grade(qs, answers)
	second := Grade(qs, answers)
	assert.Equal(t, first, second)
	assert.Equal(t, Classify(qs, answers), Classify(qs, answers))
}

func TestGradeRepresentationIndependent(t *testing.T) {
	qs := []Question{{Text: "q", Options: []string{"x", "y"}, CorrectAnswer: 1}}

	for name, v := range map[string]any{
		"int":         1,
		"int64":       int64(1),
		"float":       1.0,
		"string":      "1",
		"padded":      " 1 ",
		"json number": json.Number("1"),
		"float text":  "1.0",
	} {
		t.Run(name, func(t *testing.T) {
			got := Grade(qs, AnswerMap{0: v})
			assert.Equal(t, 1, got.Correct)
		})
	}
}

func TestGradeUnreadableAnswerIsIncorrect(t *testing.T) {
	qs := []Question{{Text: "q", Options: []string{"x", "y"}, CorrectAnswer: 1}}
	for _, v := range []any{"b", 1.5, true, nil, []int{1}} {
		got := Grade(qs, AnswerMap{0: v})
		assert.Equal(t, 1, got.Incorrect, "%#v", v)
		assert.Equal(t, 0, got.Unattempted)
	}
}

func TestGradeCountsAddUp(t *testing.T) {
	qs := make([]Question, 7)
	for i := range qs {
		qs[i] = Question{Options: []string{"a", "b", "c", "d"}, CorrectAnswer: i % 4}
	}
	answers := AnswerMap{0: 0, 1: 3, 3: "3", 4: 9, 6: "x", 42: 1}
	got := Grade(qs, answers)
	assert.Equal(t, got.Total, got.Correct+got.Incorrect+got.Unattempted)
	assert.Equal(t, len(qs), got.Total)
	assert.Equal(t, 2, got.Correct)
	assert.Equal(t, 3, got.Incorrect)
	assert.Equal(t, 2, got.Unattempted)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 100, Percent(4, 4))
}

func TestCanonicalIndex(t *testing.T) {
	n, ok := CanonicalIndex(uint8(3))
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = CanonicalIndex("")
	assert.False(t, ok)
	_, ok = CanonicalIndex(map[string]any{})
	assert.False(t, ok)
}
