package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const attemptsUnavailableNotice = "Attempt counts are temporarily unavailable. Please try again later."

type CatalogService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	ListCategoryTests(ctx context.Context, subject Subject, categoryID uint) (*dto.TestListingDTO, error)
	GetTest(ctx context.Context, subject Subject, testID uint) (*dto.TestDetailDTO, error)
	// ListSeries lists every premium test across categories in catalog order.
	ListSeries(ctx context.Context, subject Subject) (*dto.TestListingDTO, error)
	ListPlans(ctx context.Context) ([]dto.PlanDTO, error)
	ListBanners(ctx context.Context) ([]dto.BannerDTO, error)
	// Entitlement evaluates one test the way its category listing presents it.
	Entitlement(ctx context.Context, subject Subject, testID uint) (*TestEntitlement, error)
}

type TestEntitlement struct {
	Test   *model.Test
	Detail *dto.TestDetailDTO
}

type catalogService struct {
	categoryRepo   repository.CategoryRepository
	testRepo       repository.TestRepository
	questionRepo   repository.QuestionRepository
	planRepo       repository.PlanRepository
	bannerRepo     repository.BannerRepository
	membership     MembershipService
	favorites      PersonalizationService
	eval           *evaluator.Evaluator
	defaultCeiling int
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	planRepo repository.PlanRepository,
	bannerRepo repository.BannerRepository,
	membership MembershipService,
	favorites PersonalizationService,
	eval *evaluator.Evaluator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		categoryRepo:   categoryRepo,
		testRepo:       testRepo,
		questionRepo:   questionRepo,
		planRepo:       planRepo,
		bannerRepo:     bannerRepo,
		membership:     membership,
		favorites:      favorites,
		eval:           eval,
		defaultCeiling: cfg.Attempts.DefaultCeiling,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, s.categoryDTO(c))
	}
	return out, nil
}

func (s *catalogService) ListCategoryTests(ctx context.Context, subject Subject, categoryID uint) (*dto.TestListingDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", categoryID, err)
	}
	listing, err := s.evaluateListing(ctx, subject, func(ctx context.Context) ([]model.Test, error) {
		return s.testRepo.FindByCategory(ctx, categoryID)
	}, 0)
	if err != nil {
		return nil, err
	}
	c := s.categoryDTO(*category)
	listing.Category = &c
	return listing, nil
}

func (s *catalogService) ListSeries(ctx context.Context, subject Subject) (*dto.TestListingDTO, error) {
	return s.evaluateListing(ctx, subject, s.testRepo.FindPremiumInCatalogOrder, 0)
}

func (s *catalogService) GetTest(ctx context.Context, subject Subject, testID uint) (*dto.TestDetailDTO, error) {
	ent, err := s.Entitlement(ctx, subject, testID)
	if err != nil {
		return nil, err
	}
	count, err := s.questionRepo.CountByTestID(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to count questions")
		return nil, fmt.Errorf("count questions: %w", err)
	}
	ent.Detail.QuestionCount = count
	return ent.Detail, nil
}

func (s *catalogService) Entitlement(ctx context.Context, subject Subject, testID uint) (*TestEntitlement, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("test %d: %w", testID, err)
	}
	listing, err := s.evaluateListing(ctx, subject, func(ctx context.Context) ([]model.Test, error) {
		return s.testRepo.FindByCategory(ctx, test.CategoryID)
	}, testID)
	if err != nil {
		return nil, err
	}
	for _, item := range listing.Tests {
		if item.ID != testID {
			continue
		}
		detail := &dto.TestDetailDTO{TestSummaryDTO: item, Notice: listing.Notice}
		if item.Verdict == evaluator.Denied {
			detail.Upsell = listing.Upsell
		}
		return &TestEntitlement{Test: test, Detail: detail}, nil
	}
	return nil, fmt.Errorf("test %d not listed in category %d: %w", testID, test.CategoryID, ErrNotFound)
}

func (s *catalogService) ListPlans(ctx context.Context) ([]dto.PlanDTO, error) {
	plans, err := s.planRepo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var out []dto.PlanDTO
	if err := copier.Copy(&out, &plans); err != nil {
		return nil, fmt.Errorf("map plans: %w", err)
	}
	return out, nil
}

func (s *catalogService) ListBanners(ctx context.Context) ([]dto.BannerDTO, error) {
	banners, err := s.bannerRepo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	var out []dto.BannerDTO
	if err := copier.Copy(&out, &banners); err != nil {
		return nil, fmt.Errorf("map banners: %w", err)
	}
	return out, nil
}

// evaluateListing loads the tests of one listing together with everything the verdicts
// depend on. The membership, plan and favorite lookups degrade instead of failing the
// listing; a membership that cannot be read counts as not active. A non-zero only limits
// attempt counter reads to that test; the others report zero attempts.
func (s *catalogService) evaluateListing(ctx context.Context, subject Subject, load func(context.Context) ([]model.Test, error), only uint) (*dto.TestListingDTO, error) {
	var (
		tests      []model.Test
		categories []model.Category
		membership *evaluator.Membership
		plans      []model.Plan
		favorites  map[uint]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tests, err = load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		m, err := s.membership.Current(gctx, subject)
		if err != nil {
			log.Warn().Err(err).Str("subject", subject.ID).Msg("Membership lookup failed, treating as not active")
			return nil
		}
		membership = m
		return nil
	})
	g.Go(func() error {
		p, err := s.planRepo.FindAll(gctx, true)
		if err != nil {
			log.Warn().Err(err).Msg("Plan lookup failed, listing without upsell")
			return nil
		}
		plans = p
		return nil
	})
	g.Go(func() error {
		ids, err := s.favorites.FavoriteIDs(gctx, subject)
		if err != nil {
			log.Warn().Err(err).Str("subject", subject.ID).Msg("Favorite lookup failed")
			return nil
		}
		favorites = make(map[uint]bool, len(ids))
		for _, id := range ids {
			favorites[id] = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("subject", subject.ID).Msg("Failed to load test listing")
		return nil, fmt.Errorf("load listing: %w", err)
	}

	ceilings := make(map[uint]int, len(categories))
	for _, c := range categories {
		ceilings[c.ID] = c.CeilingOr(s.defaultCeiling)
	}

	contents := make([]evaluator.Content, len(tests))
	for i, t := range tests {
		contents[i] = evaluator.Content{IsPremium: t.IsPremium}
	}
	freeTrial := evaluator.FreeTrialIndex(contents)

	listing := &dto.TestListingDTO{Tests: make([]dto.TestSummaryDTO, 0, len(tests))}
	anyDenied := false
	for i, t := range tests {
		verdict := s.eval.CanStart(contents[i], membership, evaluator.CatalogPosition{Index: i, FreeTrialIndex: freeTrial})
		ceiling, ok := ceilings[t.CategoryID]
		if !ok {
			ceiling = s.defaultCeiling
		}
		var used int
		if only == 0 || t.ID == only {
			var err error
			used, err = s.eval.Attempts().Get(ctx, evaluator.ScopeKey(subject.ID, t.CategoryID, t.ID))
			if err != nil {
				log.Warn().Err(err).Uint("testID", t.ID).Msg("Attempt count unavailable")
				listing.Notice = attemptsUnavailableNotice
			}
		}

		item := dto.TestSummaryDTO{
			ID:              t.ID,
			CategoryID:      t.CategoryID,
			Title:           t.Title,
			Description:     t.Description,
			IsPremium:       t.IsPremium,
			Price:           t.Price,
			DurationMinutes: t.DurationMinutes,
			Position:        t.Position,
			Verdict:         verdict,
			IsFreeTrial:     verdict == evaluator.AllowedAsFreeTrial,
			AttemptsUsed:    used,
			AttemptsLeft:    evaluator.AttemptsLeft(used, ceiling),
			AttemptCeiling:  ceiling,
			IsFavorite:      favorites[t.ID],
		}
		anyDenied = anyDenied || verdict == evaluator.Denied
		listing.Tests = append(listing.Tests, item)
	}
	if anyDenied {
		listing.Upsell = cheapestPlan(plans)
	}
	return listing, nil
}

func (s *catalogService) categoryDTO(c model.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		IconURL:        c.IconURL,
		Position:       c.Position,
		AttemptCeiling: c.CeilingOr(s.defaultCeiling),
	}
}

func cheapestPlan(plans []model.Plan) *dto.PlanDTO {
	var best *model.Plan
	for i := range plans {
		p := &plans[i]
		if !p.Active {
			continue
		}
		if best == nil || p.Price.LessThan(best.Price) {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return planDTO(best)
}

func planDTO(p *model.Plan) *dto.PlanDTO {
	return &dto.PlanDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Active:       p.Active,
	}
}
