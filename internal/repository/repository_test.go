package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestTestRepositoryOrdering(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	categories := NewCategoryRepository(db)
	tests := NewTestRepository(db)

	second := &model.Category{Name: "Banking", Position: 2}
	first := &model.Category{Name: "Railways", Position: 1}
	require.NoError(t, categories.Create(ctx, second))
	require.NoError(t, categories.Create(ctx, first))

	mk := func(cat uint, title string, pos int, premium bool) *model.Test {
		tt := &model.Test{CategoryID: cat, Title: title, Position: pos, IsPremium: premium, DurationMinutes: 30, Price: decimal.NewFromInt(49)}
		require.NoError(t, tests.Create(ctx, tt))
		return tt
	}
	mk(second.ID, "B-2", 2, true)
	mk(second.ID, "B-1", 1, false)
	mk(first.ID, "R-2", 2, true)
	mk(first.ID, "R-1", 1, true)

	listing, err := tests.FindByCategory(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, "B-1", listing[0].Title)
	assert.Equal(t, "B-2", listing[1].Title)

	series, err := tests.FindPremiumInCatalogOrder(ctx)
	require.NoError(t, err)
	var titles []string
	for _, s := range series {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"R-1", "R-2", "B-2"}, titles)
	assert.True(t, series[0].Price.Equal(decimal.NewFromInt(49)))
}

func TestTestRepositoryQuestions(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	tests := NewTestRepository(db)
	questions := NewQuestionRepository(db)

	tt := &model.Test{CategoryID: 1, Title: "Mock 1", DurationMinutes: 20, Questions: []model.Question{
		{OrderInTest: 2, Text: "second", Options: []string{"a", "b"}, CorrectAnswer: 0},
		{OrderInTest: 1, Text: "first", Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
	}}
	require.NoError(t, tests.Create(ctx, tt))

	loaded, err := tests.FindByIDWithQuestions(ctx, tt.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 2)
	assert.Equal(t, "first", loaded.Questions[0].Text)
	assert.Equal(t, []string{"a", "b", "c"}, loaded.Questions[0].Options)

	n, err := questions.CountByTestID(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	next, err := questions.NextOrder(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	next, err = questions.NextOrder(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, tests.Delete(ctx, tt.ID))
	_, err = tests.FindByID(ctx, tt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err = questions.CountByTestID(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.ErrorIs(t, tests.Delete(ctx, tt.ID), ErrNotFound)
}

func TestPurchaseSettleOnce(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(db)

	p := &model.Purchase{ID: "order-1", UserID: "u1", PlanID: 1, Amount: decimal.NewFromInt(199), Status: model.PurchasePending}
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.Settle(ctx, "order-1", model.PurchasePaid, "pay_1", "", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Settle(ctx, "order-1", model.PurchaseFailed, "", "late failure", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, model.PurchasePaid, got.Status)
	assert.Equal(t, "pay_1", got.PaymentID)
	require.NotNil(t, got.SettledAt)
}

func TestUserMembershipAndList(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	require.NoError(t, repo.EnsureExists(ctx, &model.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}))
	require.NoError(t, repo.EnsureExists(ctx, &model.User{ID: "u1", Name: "ignored"}))
	require.NoError(t, repo.EnsureExists(ctx, &model.User{ID: "u2", Name: "Ravi"}))

	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, model.RoleUser, u.Role)

	require.NoError(t, repo.SetMembership(ctx, "u1", datatypes.JSON(`{"planId":"1"}`)))
	u, err = repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"planId":"1"}`, string(u.Membership))

	assert.ErrorIs(t, repo.SetMembership(ctx, "nobody", datatypes.JSON(`{}`)), ErrNotFound)

	users, total, err := repo.List(ctx, "ash", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestFavoritesAndNotifications(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	favs := NewFavoriteRepository(db)

	require.NoError(t, favs.Add(ctx, "u1", 5))
	require.NoError(t, favs.Add(ctx, "u1", 5))
	require.NoError(t, favs.Add(ctx, "u1", 6))
	ids, err := favs.ListTestIDs(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{5, 6}, ids)

	require.NoError(t, favs.Remove(ctx, "u1", 5))
	ids, err = favs.ListTestIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []uint{6}, ids)

	notes := NewNotificationRepository(db)
	require.NoError(t, notes.Create(ctx, &model.Notification{Title: "broadcast"}))
	require.NoError(t, notes.Create(ctx, &model.Notification{UserID: "u1", Title: "mine"}))
	require.NoError(t, notes.Create(ctx, &model.Notification{UserID: "u2", Title: "theirs"}))

	got, err := notes.FindForUser(ctx, "u1", 10)
	require.NoError(t, err)
	var titles []string
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"broadcast", "mine"}, titles)
}

func TestAttemptLogCounts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	logs := NewAttemptLogRepository(db)

	for i, subject := range []string{"guest|d1", "guest|d1", "u1"} {
		require.NoError(t, logs.Create(ctx, &model.AttemptLog{Subject: subject, TestID: 7, CategoryID: 1, AttemptNumber: i + 1}))
	}
	require.NoError(t, logs.Create(ctx, &model.AttemptLog{Subject: "u1", TestID: 8, CategoryID: 1, AttemptNumber: 1}))

	n, err := logs.CountBySubjectAndTest(ctx, "guest|d1", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = logs.CountByTest(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = logs.CountByTest(ctx, 9)
	require.NoError(t, err)
	assert.Zero(t, n)
}
