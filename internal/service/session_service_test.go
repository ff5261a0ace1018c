package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionCountsUntilCeiling(t *testing.T) {
	f := newFixture(t)
	subject := guest()

	for i := 1; i <= 3; i++ {
		start, err := f.sessions.Start(f.ctx, subject, f.premiumA.ID)
		require.NoError(t, err, "start %d", i)
		assert.Equal(t, i, start.AttemptsUsed)
		assert.Equal(t, 3-i, start.AttemptsLeft)
		assert.Equal(t, evaluator.AllowedAsFreeTrial, start.Verdict)
		require.Len(t, start.Questions, 3)
		assert.Equal(t, "q1", start.Questions[0].Question)
	}

	_, err := f.sessions.Start(f.ctx, subject, f.premiumA.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	raw, ok, err := f.store.Get(f.ctx, evaluator.ScopeKey(subject.ID, f.category.ID, f.premiumA.ID))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3", raw)

	status, err := f.sessions.Attempts(f.ctx, subject, f.premiumA.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, status.AttemptsUsed)
	assert.Equal(t, 0, status.AttemptsLeft)
	assert.Equal(t, 3, status.Ceiling)
	assert.Equal(t, 3, status.ServerLogged)
}

func TestStartSessionDeniedWithoutMembership(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessions.Start(f.ctx, guest(), f.premiumB.ID)
	require.ErrorIs(t, err, ErrPaymentRequired)
	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	require.NotNil(t, denied.Upsell)
	assert.Equal(t, "Weekly", denied.Upsell.Name)

	_, ok, err := f.store.Get(f.ctx, evaluator.ScopeKey(guest().ID, f.category.ID, f.premiumB.ID))
	require.NoError(t, err)
	assert.False(t, ok, "a denied start must not touch the counter")
}

func TestAttemptCountersAreScopedPerSubjectAndTest(t *testing.T) {
	f := newFixture(t)
	f.category.AttemptCeiling = 1
	require.NoError(t, f.categoryRepo.Update(f.ctx, &f.category))

	_, err := f.sessions.Start(f.ctx, guest(), f.free.ID)
	require.NoError(t, err)
	_, err = f.sessions.Start(f.ctx, guest(), f.free.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	_, err = f.sessions.Start(f.ctx, guest(), f.premiumA.ID)
	assert.NoError(t, err, "another test has its own counter")
	_, err = f.sessions.Start(f.ctx, GuestSubject("device-2"), f.free.ID)
	assert.NoError(t, err, "another subject has its own counter")
}

func TestConcurrentStartsNeverExceedCeiling(t *testing.T) {
	f := newFixture(t)
	subject := guest()

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.sessions.Start(f.ctx, subject, f.free.ID)
		}()
	}
	wg.Wait()

	used, err := f.eval.Attempts().Get(f.ctx, evaluator.ScopeKey(subject.ID, f.category.ID, f.free.ID))
	require.NoError(t, err)
	assert.LessOrEqual(t, used, 3)
}

func TestSubmitGradesAndStoresResult(t *testing.T) {
	f := newFixture(t)
	subject := member()

	_, err := f.sessions.Start(f.ctx, subject, f.free.ID)
	require.NoError(t, err)
	res, err := f.sessions.Submit(f.ctx, subject, f.free.ID, evaluator.AnswerMap{0: float64(1), 2: "0"})
	require.NoError(t, err)
	assert.Equal(t, evaluator.ScoreSummary{
		Correct: 1, Incorrect: 1, Unattempted: 1, Total: 3,
		CorrectPct: 33, IncorrectPct: 33, UnattemptedPct: 33,
	}, res.Summary)

	require.Len(t, res.Review, 3)
	assert.Equal(t, evaluator.StatusCorrect, res.Review[0].Status)
	assert.Equal(t, "e1", res.Review[0].Explanation)
	assert.Equal(t, evaluator.StatusUnattempted, res.Review[1].Status)
	assert.Nil(t, res.Review[1].Selected)
	assert.Equal(t, evaluator.StatusIncorrect, res.Review[2].Status)
	require.NotNil(t, res.Review[2].Selected)
	assert.Equal(t, 0, *res.Review[2].Selected)
	assert.Equal(t, 2, res.Review[2].CorrectAnswer)

	history, err := f.sessions.Results(f.ctx, subject)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 33, history[0].ScorePct)
	assert.Equal(t, 1, history[0].AttemptNumber)
	assert.Equal(t, "Free mock", history[0].TestTitle)
}

func TestSubmitEmptyAnswers(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessions.Start(f.ctx, guest(), f.free.ID)
	require.NoError(t, err)
	res, err := f.sessions.Submit(f.ctx, guest(), f.free.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Summary.Unattempted)
	assert.Equal(t, 100, res.Summary.UnattemptedPct)
}

func TestSubmitDeniedTest(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessions.Submit(f.ctx, guest(), f.premiumB.ID, evaluator.AnswerMap{0: 1})
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestAttemptsUnavailableIsSurfaced(t *testing.T) {
	f := newFixture(t)
	broken := evaluator.New(failingStore{})
	sessions := NewSessionService(f.catalog, nil, f.attemptLogs, nil, broken)

	_, err := sessions.Start(f.ctx, guest(), f.free.ID)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSubmitWithoutStartRevealsNothing(t *testing.T) {
	f := newFixture(t)

	res, err := f.sessions.Submit(f.ctx, guest(), f.free.ID, evaluator.AnswerMap{0: 1})
	require.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, res)

	history, err := f.sessions.Results(f.ctx, guest())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestExhaustedSubjectCannotKeepSubmitting(t *testing.T) {
	f := newFixture(t)
	subject := guest()

	for i := 1; i <= 3; i++ {
		_, err := f.sessions.Start(f.ctx, subject, f.free.ID)
		require.NoError(t, err)
		_, err = f.sessions.Submit(f.ctx, subject, f.free.ID, evaluator.AnswerMap{0: 1})
		require.NoError(t, err, "attempt %d", i)
	}
	_, err := f.sessions.Start(f.ctx, subject, f.free.ID)
	require.ErrorIs(t, err, ErrAttemptsExhausted)

	for i := 0; i < 5; i++ {
		res, err := f.sessions.Submit(f.ctx, subject, f.free.ID, nil)
		require.ErrorIs(t, err, ErrConflict)
		assert.Nil(t, res)
	}

	history, err := f.sessions.Results(f.ctx, subject)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestSessionSubmitsOnce(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessions.Start(f.ctx, member(), f.free.ID)
	require.NoError(t, err)
	_, err = f.sessions.Submit(f.ctx, member(), f.free.ID, nil)
	require.NoError(t, err)

	_, err = f.sessions.Submit(f.ctx, member(), f.free.ID, nil)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.sessions.Submit(f.ctx, guest(), f.free.ID, nil)
	assert.ErrorIs(t, err, ErrConflict, "sessions belong to the subject that started them")
}
