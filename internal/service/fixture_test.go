package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/payment"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeCheckout struct {
	err    error
	orders []payment.Order
}

func (f *fakeCheckout) Start(_ context.Context, order payment.Order) (payment.Session, error) {
	if f.err != nil {
		return payment.Session{}, f.err
	}
	f.orders = append(f.orders, order)
	return payment.Session{OrderID: order.ID, CheckoutURL: "https://pay.test/?order_id=" + order.ID}, nil
}

type fakeExplainer struct {
	text string
	err  error
}

func (f *fakeExplainer) Draft(context.Context, *model.Question) (string, error) {
	return f.text, f.err
}

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	store kvstore.Store
	eval  *evaluator.Evaluator

	users         repository.UserRepository
	purchasesRepo repository.PurchaseRepository
	attemptLogs   repository.AttemptLogRepository
	categoryRepo  repository.CategoryRepository

	membership   MembershipService
	personal     PersonalizationService
	catalog      CatalogService
	sessions     SessionService
	purchases    PurchaseService
	userService  UserService
	adminCatalog AdminCatalogService
	adminUsers   AdminUserService
	adminContent AdminContentService
	checkout     *fakeCheckout
	explainer    *fakeExplainer

	category model.Category
	free     model.Test
	premiumA model.Test
	premiumB model.Test
	monthly  model.Plan
	weekly   model.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	store := kvstore.NewMemoryStore()
	cfg := &config.Config{}
	cfg.Attempts.DefaultCeiling = 3

	f := &fixture{
		ctx:       context.Background(),
		db:        db,
		store:     store,
		eval:      evaluator.New(store, evaluator.WithClock(func() time.Time { return fixedNow })),
		checkout:  &fakeCheckout{},
		explainer: &fakeExplainer{text: "Because B is right."},
	}

	categoryRepo := repository.NewCategoryRepository(db)
	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	resultRepo := repository.NewTestResultRepository(db)
	f.users = repository.NewUserRepository(db)
	f.purchasesRepo = repository.NewPurchaseRepository(db)
	f.attemptLogs = repository.NewAttemptLogRepository(db)
	f.categoryRepo = categoryRepo

	f.membership = NewMembershipService(f.users, f.eval)
	f.personal = NewPersonalizationService(favoriteRepo, testRepo, notificationRepo, store)
	f.catalog = NewCatalogService(categoryRepo, testRepo, questionRepo, planRepo, bannerRepo, f.membership, f.personal, f.eval, cfg)
	f.sessions = NewSessionService(f.catalog, questionRepo, f.attemptLogs, resultRepo, f.eval)
	f.purchases = NewPurchaseService(db, f.purchasesRepo, planRepo, f.users, notificationRepo, f.checkout, f.eval)
	f.userService = NewUserService(f.users)
	f.adminCatalog = NewAdminCatalogService(categoryRepo, testRepo, questionRepo, planRepo, f.attemptLogs, f.explainer)
	f.adminUsers = NewAdminUserService(f.users, planRepo, f.membership, f.eval)
	f.adminContent = NewAdminContentService(bannerRepo, notificationRepo, f.users)

	f.category = model.Category{Name: "Banking", Position: 1}
	require.NoError(t, categoryRepo.Create(f.ctx, &f.category))
	f.free = f.seedTest(t, f.category.ID, "Free mock", 1, false)
	f.premiumA = f.seedTest(t, f.category.ID, "Premium A", 2, true)
	f.premiumB = f.seedTest(t, f.category.ID, "Premium B", 3, true)

	f.monthly = model.Plan{Name: "Monthly", Price: decimal.NewFromInt(199), DurationDays: 30, Active: true}
	f.weekly = model.Plan{Name: "Weekly", Price: decimal.NewFromInt(49), DurationDays: 7, Active: true}
	legacy := model.Plan{Name: "Legacy", Price: decimal.NewFromInt(9), DurationDays: 365, Active: false}
	for _, p := range []*model.Plan{&f.monthly, &f.weekly, &legacy} {
		require.NoError(t, planRepo.Create(f.ctx, p))
	}

	require.NoError(t, f.users.EnsureExists(f.ctx, &model.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: model.RoleUser}))
	return f
}

// seedTest creates a test with three questions whose correct answers are 1, 0 and 2.
func (f *fixture) seedTest(t *testing.T, categoryID uint, title string, position int, premium bool) model.Test {
	t.Helper()
	opts := []string{"A", "B", "C", "D"}
	tt := model.Test{
		CategoryID:      categoryID,
		Title:           title,
		Position:        position,
		IsPremium:       premium,
		DurationMinutes: 15,
		Questions: []model.Question{
			{OrderInTest: 1, Text: "q1", Options: opts, CorrectAnswer: 1, Explanation: "e1"},
			{OrderInTest: 2, Text: "q2", Options: opts, CorrectAnswer: 0},
			{OrderInTest: 3, Text: "q3", Options: opts, CorrectAnswer: 2},
		},
	}
	require.NoError(t, repository.NewTestRepository(f.db).Create(f.ctx, &tt))
	return tt
}

func guest() Subject { return GuestSubject("device-1") }

func member() Subject { return UserSubject("u1", model.RoleUser) }

func (f *fixture) grant(t *testing.T, plan model.Plan) {
	t.Helper()
	_, err := f.membership.Grant(f.ctx, "u1", &plan, 0)
	require.NoError(t, err)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store offline")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("store offline")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("store offline")
}
