package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const resultHistoryLimit = 100

type SessionService interface {
	// Start checks entitlement and the attempt ceiling, counts the attempt and returns
	// the questions without their answers.
	Start(ctx context.Context, subject Subject, testID uint) (*dto.SessionStartDTO, error)
	// Submit grades the answers of the caller's open session and closes it. Without an
	// open session it fails with ErrConflict and reveals nothing.
	Submit(ctx context.Context, subject Subject, testID uint, answers evaluator.AnswerMap) (*dto.SubmissionResultDTO, error)
	Results(ctx context.Context, subject Subject) ([]dto.TestResultDTO, error)
	Attempts(ctx context.Context, subject Subject, testID uint) (*dto.AttemptStatusDTO, error)
}

type sessionService struct {
	catalog      CatalogService
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptLogRepository
	resultRepo   repository.TestResultRepository
	eval         *evaluator.Evaluator
}

func NewSessionService(
	catalog CatalogService,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptLogRepository,
	resultRepo repository.TestResultRepository,
	eval *evaluator.Evaluator,
) SessionService {
	return &sessionService{
		catalog:      catalog,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		resultRepo:   resultRepo,
		eval:         eval,
	}
}

func (s *sessionService) Start(ctx context.Context, subject Subject, testID uint) (*dto.SessionStartDTO, error) {
	ent, err := s.entitled(ctx, subject, testID)
	if err != nil {
		return nil, err
	}
	detail := ent.Detail
	scopeKey := evaluator.ScopeKey(subject.ID, ent.Test.CategoryID, ent.Test.ID)

	start, err := s.eval.StartSession(ctx, scopeKey, detail.AttemptCeiling)
	if err != nil {
		if errors.Is(err, evaluator.ErrSessionBusy) {
			return nil, err
		}
		log.Error().Err(err).Str("scopeKey", scopeKey).Msg("Failed to start session")
		return nil, fmt.Errorf("%w: attempt tracking failed: %v", ErrUnavailable, err)
	}
	if !start.Allowed {
		return nil, fmt.Errorf("%w: %d of %d attempts used", ErrAttemptsExhausted, start.AttemptsUsed, detail.AttemptCeiling)
	}

	questions, err := s.questionRepo.FindByTestID(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to load questions for session")
		return nil, fmt.Errorf("load questions: %w", err)
	}

	entry := &model.AttemptLog{
		Subject:       subject.ID,
		TestID:        testID,
		CategoryID:    ent.Test.CategoryID,
		AttemptNumber: start.AttemptsUsed,
		FreeTrial:     detail.Verdict == evaluator.AllowedAsFreeTrial,
	}
	if err := s.attemptRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("subject", subject.ID).Uint("testID", testID).Msg("Failed to write attempt log")
	}

	out := &dto.SessionStartDTO{
		TestID:          testID,
		Title:           ent.Test.Title,
		DurationMinutes: ent.Test.DurationMinutes,
		Verdict:         detail.Verdict,
		AttemptsUsed:    start.AttemptsUsed,
		AttemptsLeft:    evaluator.AttemptsLeft(start.AttemptsUsed, detail.AttemptCeiling),
		Questions:       make([]dto.SessionQuestionDTO, 0, len(questions)),
	}
	for i, q := range questions {
		out.Questions = append(out.Questions, dto.SessionQuestionDTO{Index: i, Question: q.Text, Options: q.Options})
	}
	log.Info().Str("subject", subject.ID).Uint("testID", testID).Int("attempt", start.AttemptsUsed).Msg("Session started")
	return out, nil
}

func (s *sessionService) Submit(ctx context.Context, subject Subject, testID uint, answers evaluator.AnswerMap) (*dto.SubmissionResultDTO, error) {
	ent, err := s.entitled(ctx, subject, testID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindByTestID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	scopeKey := evaluator.ScopeKey(subject.ID, ent.Test.CategoryID, testID)
	attempt, err := s.eval.FinishSession(ctx, scopeKey)
	switch {
	case errors.Is(err, evaluator.ErrNoOpenSession):
		log.Info().Str("subject", subject.ID).Uint("testID", testID).Msg("Submission without an open session")
		return nil, fmt.Errorf("%w: start the test before submitting", ErrConflict)
	case errors.Is(err, evaluator.ErrSessionBusy):
		return nil, err
	case err != nil:
		log.Error().Err(err).Str("scopeKey", scopeKey).Msg("Failed to close session")
		return nil, fmt.Errorf("%w: session tracking failed: %v", ErrUnavailable, err)
	}

	graded := toEvaluatorQuestions(questions)
	summary := s.eval.GradeSubmission(graded, answers)
	results := s.eval.Classify(graded, answers)

	out := &dto.SubmissionResultDTO{
		TestID:  testID,
		Summary: summary,
		Review:  make([]dto.ReviewItemDTO, 0, len(results)),
	}
	for i, r := range results {
		q := questions[i]
		out.Review = append(out.Review, dto.ReviewItemDTO{
			Index:         r.Index,
			Question:      q.Text,
			Options:       q.Options,
			Status:        r.Status,
			Selected:      r.Selected,
			CorrectAnswer: r.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	record := &model.TestResult{
		Subject:       subject.ID,
		TestID:        testID,
		AttemptNumber: attempt,
		Correct:       summary.Correct,
		Incorrect:     summary.Incorrect,
		Unattempted:   summary.Unattempted,
		Total:         summary.Total,
		ScorePct:      summary.CorrectPct,
	}
	if err := s.resultRepo.Create(ctx, record); err != nil {
		log.Error().Err(err).Str("subject", subject.ID).Uint("testID", testID).Msg("Failed to store test result")
	}
	return out, nil
}

func (s *sessionService) Results(ctx context.Context, subject Subject) ([]dto.TestResultDTO, error) {
	results, err := s.resultRepo.FindBySubject(ctx, subject.ID, resultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]dto.TestResultDTO, 0, len(results))
	for _, r := range results {
		item := dto.TestResultDTO{
			ID:            r.ID,
			TestID:        r.TestID,
			AttemptNumber: r.AttemptNumber,
			Correct:       r.Correct,
			Incorrect:     r.Incorrect,
			Unattempted:   r.Unattempted,
			Total:         r.Total,
			ScorePct:      r.ScorePct,
			SubmittedAt:   r.SubmittedAt,
		}
		if r.Test != nil {
			item.TestTitle = r.Test.Title
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *sessionService) Attempts(ctx context.Context, subject Subject, testID uint) (*dto.AttemptStatusDTO, error) {
	ent, err := s.catalog.Entitlement(ctx, subject, testID)
	if err != nil {
		return nil, err
	}
	ceiling := ent.Detail.AttemptCeiling
	used, err := s.eval.Attempts().Get(ctx, evaluator.ScopeKey(subject.ID, ent.Test.CategoryID, testID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	logged, err := s.attemptRepo.CountBySubjectAndTest(ctx, subject.ID, testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Failed to count attempt log")
	}
	return &dto.AttemptStatusDTO{
		TestID:       testID,
		AttemptsUsed: used,
		AttemptsLeft: evaluator.AttemptsLeft(used, ceiling),
		Ceiling:      ceiling,
		ServerLogged: logged,
	}, nil
}

func (s *sessionService) entitled(ctx context.Context, subject Subject, testID uint) (*TestEntitlement, error) {
	ent, err := s.catalog.Entitlement(ctx, subject, testID)
	if err != nil {
		return nil, err
	}
	if !ent.Detail.Verdict.CanAccess() {
		log.Info().Str("subject", subject.ID).Uint("testID", testID).Msg("Start denied, membership required")
		return nil, &DeniedError{TestID: testID, Upsell: ent.Detail.Upsell}
	}
	return ent, nil
}

func toEvaluatorQuestions(questions []model.Question) []evaluator.Question {
	out := make([]evaluator.Question, len(questions))
	for i, q := range questions {
		out[i] = evaluator.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	return out
}
