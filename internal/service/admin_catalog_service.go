package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminCatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req dto.CategoryUpsertDTO) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, req dto.CategoryUpsertDTO) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListTests(ctx context.Context, categoryID uint) ([]dto.AdminTestDTO, error)
	GetTest(ctx context.Context, id uint) (*dto.AdminTestDTO, error)
	CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.AdminTestDTO, error)
	UpdateTest(ctx context.Context, id uint, req dto.TestUpdateDTO) (*dto.AdminTestDTO, error)
	DeleteTest(ctx context.Context, id uint) error

	AddQuestion(ctx context.Context, testID uint, req dto.QuestionCreateDTO) (*dto.AdminQuestionDTO, error)
	UpdateQuestion(ctx context.Context, id uint, req dto.QuestionCreateDTO) (*dto.AdminQuestionDTO, error)
	DeleteQuestion(ctx context.Context, id uint) error
	DraftExplanation(ctx context.Context, questionID uint) (*dto.ExplanationDTO, error)

	ListPlans(ctx context.Context) ([]dto.PlanDTO, error)
	CreatePlan(ctx context.Context, req dto.PlanUpsertDTO) (*dto.PlanDTO, error)
	UpdatePlan(ctx context.Context, id uint, req dto.PlanUpsertDTO) (*dto.PlanDTO, error)
	DeletePlan(ctx context.Context, id uint) error
}

type adminCatalogService struct {
	categoryRepo repository.CategoryRepository
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	planRepo     repository.PlanRepository
	attemptRepo  repository.AttemptLogRepository
	explainer    ExplanationService
}

func NewAdminCatalogService(
	categoryRepo repository.CategoryRepository,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	planRepo repository.PlanRepository,
	attemptRepo repository.AttemptLogRepository,
	explainer ExplanationService,
) AdminCatalogService {
	return &adminCatalogService{
		categoryRepo: categoryRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		planRepo:     planRepo,
		attemptRepo:  attemptRepo,
		explainer:    explainer,
	}
}

func (s *adminCatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *adminCatalogService) CreateCategory(ctx context.Context, req dto.CategoryUpsertDTO) (*model.Category, error) {
	var category model.Category
	if err := copier.Copy(&category, &req); err != nil {
		return nil, fmt.Errorf("map category: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, invalid("category name is required")
	}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		log.Error().Err(err).Str("name", category.Name).Msg("Failed to create category")
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *adminCatalogService) UpdateCategory(ctx context.Context, id uint, req dto.CategoryUpsertDTO) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	if err := copier.Copy(category, &req); err != nil {
		return nil, fmt.Errorf("map category: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, invalid("category name is required")
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *adminCatalogService) DeleteCategory(ctx context.Context, id uint) error {
	tests, err := s.testRepo.FindByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("list category tests: %w", err)
	}
	if len(tests) > 0 {
		return fmt.Errorf("%w: category %d still has %d tests", ErrConflict, id, len(tests))
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (s *adminCatalogService) ListTests(ctx context.Context, categoryID uint) ([]dto.AdminTestDTO, error) {
	tests, err := s.testRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	out := make([]dto.AdminTestDTO, 0, len(tests))
	for i := range tests {
		out = append(out, *adminTestDTO(&tests[i]))
	}
	return out, nil
}

func (s *adminCatalogService) GetTest(ctx context.Context, id uint) (*dto.AdminTestDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("test %d: %w", id, err)
	}
	return adminTestDTO(test), nil
}

func (s *adminCatalogService) CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.AdminTestDTO, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("category %d: %w", req.CategoryID, err)
	}
	if req.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	test := model.Test{
		CategoryID:      req.CategoryID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		IsPremium:       req.IsPremium,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Position:        req.Position,
	}
	orders := make(map[int]bool, len(req.Questions))
	for i, q := range req.Questions {
		question, err := questionModel(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if question.OrderInTest == 0 {
			question.OrderInTest = i + 1
		}
		if orders[question.OrderInTest] {
			return nil, invalid("duplicate order_in_test %d", question.OrderInTest)
		}
		orders[question.OrderInTest] = true
		test.Questions = append(test.Questions, question)
	}

	if err := s.testRepo.Create(ctx, &test); err != nil {
		log.Error().Err(err).Msg("Failed to create test in database")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}
	created, err := s.testRepo.FindByIDWithQuestions(ctx, test.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to reload created test")
		return adminTestDTO(&test), nil
	}
	return adminTestDTO(created), nil
}

func (s *adminCatalogService) UpdateTest(ctx context.Context, id uint, req dto.TestUpdateDTO) (*dto.AdminTestDTO, error) {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("test %d: %w", id, err)
	}
	if req.CategoryID != nil && *req.CategoryID != test.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category %d: %w", *req.CategoryID, err)
		}
		// Attempt counters are scoped by category.
		attempts, err := s.attemptRepo.CountByTest(ctx, id)
		if err != nil {
			log.Error().Err(err).Uint("testID", id).Msg("Failed to count attempts")
			return nil, fmt.Errorf("count attempts: %w", err)
		}
		if attempts > 0 {
			return nil, fmt.Errorf("%w: test %d already has %d attempts, moving it would reset attempt counters", ErrConflict, id, attempts)
		}
		test.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, invalid("title must not be empty")
		}
		test.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.IsPremium != nil {
		test.IsPremium = *req.IsPremium
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, invalid("price must not be negative")
		}
		test.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, invalid("duration_minutes must be positive")
		}
		test.DurationMinutes = *req.DurationMinutes
	}
	if req.Position != nil {
		test.Position = *req.Position
	}
	test.Category = nil

	if err := s.testRepo.Update(ctx, test); err != nil {
		return nil, fmt.Errorf("update test %d: %w", id, err)
	}
	return s.GetTest(ctx, id)
}

func (s *adminCatalogService) DeleteTest(ctx context.Context, id uint) error {
	if err := s.testRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete test %d: %w", id, err)
	}
	log.Info().Uint("testID", id).Msg("Test deleted")
	return nil
}

func (s *adminCatalogService) AddQuestion(ctx context.Context, testID uint, req dto.QuestionCreateDTO) (*dto.AdminQuestionDTO, error) {
	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		return nil, fmt.Errorf("test %d: %w", testID, err)
	}
	question, err := questionModel(req)
	if err != nil {
		return nil, err
	}
	question.TestID = testID
	if question.OrderInTest == 0 {
		next, err := s.questionRepo.NextOrder(ctx, testID)
		if err != nil {
			return nil, fmt.Errorf("next question order: %w", err)
		}
		question.OrderInTest = next
	}
	if err := s.questionRepo.Create(ctx, &question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return adminQuestionDTO(&question), nil
}

func (s *adminCatalogService) UpdateQuestion(ctx context.Context, id uint, req dto.QuestionCreateDTO) (*dto.AdminQuestionDTO, error) {
	existing, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", id, err)
	}
	updated, err := questionModel(req)
	if err != nil {
		return nil, err
	}
	existing.Text = updated.Text
	existing.Options = updated.Options
	existing.CorrectAnswer = updated.CorrectAnswer
	existing.Explanation = updated.Explanation
	if updated.OrderInTest > 0 {
		existing.OrderInTest = updated.OrderInTest
	}
	if err := s.questionRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return adminQuestionDTO(existing), nil
}

func (s *adminCatalogService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (s *adminCatalogService) DraftExplanation(ctx context.Context, questionID uint) (*dto.ExplanationDTO, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", questionID, err)
	}
	text, err := s.explainer.Draft(ctx, question)
	if err != nil {
		return nil, err
	}
	question.Explanation = text
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("store explanation: %w", err)
	}
	log.Info().Uint("questionID", questionID).Int("length", len(text)).Msg("Explanation drafted")
	return &dto.ExplanationDTO{QuestionID: questionID, Explanation: text}, nil
}

func (s *adminCatalogService) ListPlans(ctx context.Context) ([]dto.PlanDTO, error) {
	plans, err := s.planRepo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]dto.PlanDTO, 0, len(plans))
	for i := range plans {
		out = append(out, *planDTO(&plans[i]))
	}
	return out, nil
}

func (s *adminCatalogService) CreatePlan(ctx context.Context, req dto.PlanUpsertDTO) (*dto.PlanDTO, error) {
	plan := model.Plan{Active: true}
	if err := applyPlan(&plan, req); err != nil {
		return nil, err
	}
	if err := s.planRepo.Create(ctx, &plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return planDTO(&plan), nil
}

func (s *adminCatalogService) UpdatePlan(ctx context.Context, id uint, req dto.PlanUpsertDTO) (*dto.PlanDTO, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("plan %d: %w", id, err)
	}
	if err := applyPlan(plan, req); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan %d: %w", id, err)
	}
	return planDTO(plan), nil
}

func (s *adminCatalogService) DeletePlan(ctx context.Context, id uint) error {
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan %d: %w", id, err)
	}
	return nil
}

func applyPlan(plan *model.Plan, req dto.PlanUpsertDTO) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalid("plan name is required")
	}
	if !req.Price.IsPositive() {
		return invalid("plan price must be positive")
	}
	if req.DurationDays <= 0 {
		return invalid("duration_days must be positive")
	}
	plan.Name = strings.TrimSpace(req.Name)
	plan.Description = req.Description
	plan.Price = req.Price
	plan.DurationDays = req.DurationDays
	if req.Active != nil {
		plan.Active = *req.Active
	}
	return nil
}

// questionModel validates an admin question payload. The correct answer must index into
// the options.
func questionModel(req dto.QuestionCreateDTO) (model.Question, error) {
	text := strings.TrimSpace(req.Question)
	if text == "" {
		return model.Question{}, invalid("question text is required")
	}
	if len(req.Options) < 2 {
		return model.Question{}, invalid("a question needs at least 2 options, got %d", len(req.Options))
	}
	options := make([]string, len(req.Options))
	for i, opt := range req.Options {
		options[i] = strings.TrimSpace(opt)
		if options[i] == "" {
			return model.Question{}, invalid("option %d is empty", i)
		}
	}
	correct := int(req.CorrectAnswer)
	if correct < 0 || correct >= len(options) {
		return model.Question{}, invalid("correct_answer %d is out of range for %d options", correct, len(options))
	}
	if req.OrderInTest < 0 {
		return model.Question{}, invalid("order_in_test must not be negative")
	}
	return model.Question{
		OrderInTest:   req.OrderInTest,
		Text:          text,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   strings.TrimSpace(req.Explanation),
	}, nil
}

func adminTestDTO(t *model.Test) *dto.AdminTestDTO {
	out := &dto.AdminTestDTO{
		ID:              t.ID,
		CategoryID:      t.CategoryID,
		Title:           t.Title,
		Description:     t.Description,
		IsPremium:       t.IsPremium,
		Price:           t.Price,
		DurationMinutes: t.DurationMinutes,
		Position:        t.Position,
		Questions:       make([]dto.AdminQuestionDTO, 0, len(t.Questions)),
	}
	for i := range t.Questions {
		out.Questions = append(out.Questions, *adminQuestionDTO(&t.Questions[i]))
	}
	return out
}

func adminQuestionDTO(q *model.Question) *dto.AdminQuestionDTO {
	return &dto.AdminQuestionDTO{
		ID:            q.ID,
		TestID:        q.TestID,
		OrderInTest:   q.OrderInTest,
		Question:      q.Text,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}
