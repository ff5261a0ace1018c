package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/payment"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/service"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	router   http.Handler
	category model.Category
	free     model.Test
	premiumA model.Test
	premiumB model.Test
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db := testutil.DB(t)
	store := kvstore.NewMemoryStore()
	eval := evaluator.New(store)
	cfg := &config.Config{}
	cfg.Attempts.DefaultCeiling = 3
	cfg.Checkout.BaseURL = "https://pay.test/checkout"
	cfg.Checkout.Currency = "INR"

	categoryRepo := repository.NewCategoryRepository(db)
	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	users := service.NewUserService(userRepo)
	membership := service.NewMembershipService(userRepo, eval)
	personal := service.NewPersonalizationService(repository.NewFavoriteRepository(db), testRepo, notificationRepo, store)
	catalog := service.NewCatalogService(categoryRepo, testRepo, questionRepo, planRepo, repository.NewBannerRepository(db), membership, personal, eval, cfg)
	sessions := service.NewSessionService(catalog, questionRepo, repository.NewAttemptLogRepository(db), repository.NewTestResultRepository(db), eval)
	purchases := service.NewPurchaseService(db, repository.NewPurchaseRepository(db), planRepo, userRepo, notificationRepo, payment.NewHostedCheckout(cfg), eval)

	s := &server{category: model.Category{Name: "Banking", Position: 1}}
	require.NoError(t, categoryRepo.Create(ctx, &s.category))
	opts := []string{"A", "B", "C", "D"}
	seed := func(title string, position int, premium bool) model.Test {
		tt := model.Test{
			CategoryID: s.category.ID, Title: title, Position: position, IsPremium: premium, DurationMinutes: 10,
			Questions: []model.Question{
				{OrderInTest: 1, Text: "q1", Options: opts, CorrectAnswer: 1},
				{OrderInTest: 2, Text: "q2", Options: opts, CorrectAnswer: 0},
				{OrderInTest: 3, Text: "q3", Options: opts, CorrectAnswer: 2},
			},
		}
		require.NoError(t, testRepo.Create(ctx, &tt))
		return tt
	}
	s.free = seed("Free mock", 1, false)
	s.premiumA = seed("Premium A", 2, true)
	s.premiumB = seed("Premium B", 3, true)
	require.NoError(t, planRepo.Create(ctx, &model.Plan{Name: "Monthly", Price: decimal.NewFromInt(199), DurationDays: 30, Active: true}))
	require.NoError(t, planRepo.Create(ctx, &model.Plan{Name: "Weekly", Price: decimal.NewFromInt(49), DurationDays: 7, Active: true}))

	r := gin.New()
	NewGuestController(users).RegisterRoutes(r.Group("/api/v1"))
	api := r.Group("/api/v1", middleware.Auth("test-secret", users))
	NewCatalogController(catalog).RegisterRoutes(api)
	NewSessionController(sessions).RegisterRoutes(api)
	NewMembershipController(membership, purchases).RegisterRoutes(api)
	NewPersonalizationController(personal).RegisterRoutes(api)
	s.router = r
	return s
}

func (s *server) do(t *testing.T, method, path string, body any, guestID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if guestID != "" {
		req.Header.Set(middleware.GuestHeader, guestID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateGuestIsPublic(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/guests", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode[dto.GuestDTO](t, w).GuestID)
}

func TestCatalogNeedsIdentity(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/categories", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCategoryTestsReportsVerdicts(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/categories/%d/tests", s.category.ID), nil, "device-1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tests []struct {
			Title   string `json:"title"`
			Verdict string `json:"verdict"`
		} `json:"tests"`
		Upsell *dto.PlanDTO `json:"upsell"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tests, 3)
	assert.Equal(t, "allowed", body.Tests[0].Verdict)
	assert.Equal(t, "allowed_as_free_trial", body.Tests[1].Verdict)
	assert.Equal(t, "denied", body.Tests[2].Verdict)
	require.NotNil(t, body.Upsell)
	assert.Equal(t, "Weekly", body.Upsell.Name)
}

func TestGetTestRejectsMalformedID(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/tests/abc", nil, "device-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/tests/9999", nil, "device-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartDeniedTestCarriesUpsell(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tests/%d/sessions", s.premiumB.ID), nil, "device-1")
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	require.NotNil(t, resp.Upsell)
	assert.Equal(t, "Weekly", resp.Upsell.Name)
}

func TestStartSessionStopsAtCeiling(t *testing.T) {
	s := newServer(t)
	path := fmt.Sprintf("/api/v1/tests/%d/sessions", s.free.ID)

	for i := 1; i <= 3; i++ {
		w := s.do(t, http.MethodPost, path, nil, "device-1")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		start := decode[dto.SessionStartDTO](t, w)
		assert.Equal(t, i, start.AttemptsUsed)
		assert.Equal(t, 3-i, start.AttemptsLeft)
		require.Len(t, start.Questions, 3)
	}

	w := s.do(t, http.MethodPost, path, nil, "device-1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = s.do(t, http.MethodPost, path, nil, "device-2")
	assert.Equal(t, http.StatusCreated, w.Code, "counters are per subject")

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tests/%d/attempts", s.free.ID), nil, "device-1")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[dto.AttemptStatusDTO](t, w)
	assert.Equal(t, 3, status.AttemptsUsed)
	assert.Equal(t, 0, status.AttemptsLeft)
	assert.Equal(t, 3, status.ServerLogged)
}

func TestSubmitAcceptsMixedAnswerEncodings(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tests/%d/sessions", s.free.ID), nil, "device-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := map[string]any{"answers": map[string]any{"0": 1, "1": "0", "2": 3}}
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tests/%d/submissions", s.free.ID), body, "device-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[dto.SubmissionResultDTO](t, w)
	assert.Equal(t, 2, result.Summary.Correct)
	assert.Equal(t, 1, result.Summary.Incorrect)
	assert.Equal(t, 0, result.Summary.Unattempted)
	require.Len(t, result.Review, 3)
	assert.Equal(t, 2, result.Review[2].CorrectAnswer)
}

func TestSubmitDeniedTestHidesAnswers(t *testing.T) {
	s := newServer(t)

	body := map[string]any{"answers": map[string]any{}}
	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tests/%d/submissions", s.premiumB.ID), body, "device-1")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.NotContains(t, w.Body.String(), "review")
}

func TestSubmitNeedsOpenSession(t *testing.T) {
	s := newServer(t)
	sessions := fmt.Sprintf("/api/v1/tests/%d/sessions", s.free.ID)
	submissions := fmt.Sprintf("/api/v1/tests/%d/submissions", s.free.ID)
	body := map[string]any{"answers": map[string]any{"0": 1}}

	w := s.do(t, http.MethodPost, submissions, body, "device-1")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, sessions, nil, "device-1").Code)
	}
	require.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, sessions, nil, "device-1").Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, submissions, body, "device-1").Code)
	w = s.do(t, http.MethodPost, submissions, body, "device-1")
	assert.Equal(t, http.StatusConflict, w.Code, "the open session was already submitted")

	w = s.do(t, http.MethodGet, "/api/v1/me/results", nil, "device-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.TestResultDTO](t, w), 1)
}

func TestThemeRoundTrip(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/me/theme", nil, "device-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ThemeSystem, decode[dto.ThemeDTO](t, w).Theme)

	w = s.do(t, http.MethodPut, "/api/v1/me/theme", dto.ThemeDTO{Theme: "neon"}, "device-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/me/theme", dto.ThemeDTO{Theme: dto.ThemeDark}, "device-1")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/me/theme", nil, "device-1")
	assert.Equal(t, dto.ThemeDark, decode[dto.ThemeDTO](t, w).Theme)
}

func TestGuestsCannotPurchase(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/purchases", dto.PurchaseRequest{PlanID: 1}, "device-1")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/me/membership", nil, "device-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.MembershipNone, decode[dto.MembershipStatusDTO](t, w).Status)
}
