package admin

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"opinor/internal/database"
	"opinor/internal/domain"
	"opinor/internal/modules/keywords"
	"opinor/internal/modules/notification"
	"opinor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	service    *Service
	businesses *repository.BusinessRepository
	feedbacks  *repository.FeedbackRepository
	notifs     *notification.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	businessRepo := repository.NewBusinessRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notifService := notification.NewService(repository.NewNotificationRepository(db), nil, nil)

	lex, err := keywords.ParseLexicon(strings.NewReader(""))
	require.NoError(t, err)
	router := notification.NewRouter(notifService, keywords.NewDetector(lex))
	dispatcher := notification.NewDispatcher(notifService, businessRepo, nil)

	return &testEnv{
		service:    NewService(businessRepo, feedbackRepo, notifService, router, dispatcher, nil),
		businesses: businessRepo,
		feedbacks:  feedbackRepo,
		notifs:     notifService,
	}
}

func seedBusiness(t *testing.T, env *testEnv, code string) *domain.Business {
	t.Helper()
	b := &domain.Business{
		Email:        fmt.Sprintf("%s@test.local", strings.ToLower(code)),
		PasswordHash: "x",
		BusinessName: code,
		PublicCode:   code,
		IsActive:     true,
	}
	require.NoError(t, env.businesses.Create(context.Background(), b))
	return b
}

func seedFeedback(t *testing.T, env *testEnv, businessID int64, rating float64) *domain.Feedback {
	t.Helper()
	fb := &domain.Feedback{
		BusinessID: businessID,
		Rating:     rating,
		Sentiment:  domain.ClassifySentiment(rating),
		Category:   domain.CategoryOther,
		Status:     domain.FeedbackNew,
	}
	require.NoError(t, env.feedbacks.Create(context.Background(), fb))
	return fb
}

func notifTypes(t *testing.T, env *testEnv, businessID int64) []domain.NotificationType {
	t.Helper()
	list, _, err := env.notifs.List(context.Background(), businessID, 1, 100)
	require.NoError(t, err)
	types := make([]domain.NotificationType, len(list))
	for i, n := range list {
		types[i] = n.Type
	}
	return types
}

func TestBlockUnblockBusiness(t *testing.T) {
	env := newTestEnv(t)
	b := seedBusiness(t, env, "BLOCK123")

	blocked, err := env.service.BlockBusiness(context.Background(), b.ID, "Payment overdue")
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, "Payment overdue", blocked.BlockedReason)
	assert.NotNil(t, blocked.BlockedAt)

	unblocked, err := env.service.UnblockBusiness(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
	assert.Empty(t, unblocked.BlockedReason)
	assert.Nil(t, unblocked.BlockedAt)

	types := notifTypes(t, env, b.ID)
	assert.Contains(t, types, domain.NotifAccountBlocked)
	assert.Contains(t, types, domain.NotifAccountUnblocked)
}

func TestBlockUnknownBusiness(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.BlockBusiness(context.Background(), 999, "")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestReplyToFeedbackNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	b := seedBusiness(t, env, "REPLY123")
	fb := seedFeedback(t, env, b.ID, 2)

	adm := domain.Caller{ID: 7, Role: domain.CallerAdmin}
	got, err := env.service.ReplyToFeedback(context.Background(), adm, fb.ID, "We are looking into it")
	require.NoError(t, err)
	require.NotNil(t, got.AdminReply)
	assert.Equal(t, "We are looking into it", *got.AdminReply)
	require.NotNil(t, got.AdminReplyBy)
	assert.Equal(t, int64(7), *got.AdminReplyBy)

	assert.Contains(t, notifTypes(t, env, b.ID), domain.NotifAdminReply)
}

func TestDeleteReply(t *testing.T) {
	env := newTestEnv(t)
	b := seedBusiness(t, env, "DELR1234")
	fb := seedFeedback(t, env, b.ID, 2)

	adm := domain.Caller{ID: 7, Role: domain.CallerAdmin}
	_, err := env.service.ReplyToFeedback(context.Background(), adm, fb.ID, "reply")
	require.NoError(t, err)

	got, err := env.service.DeleteReply(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AdminReply)
	assert.Nil(t, got.AdminReplyAt)
	assert.Nil(t, got.AdminReplyBy)

	_, err = env.service.DeleteReply(context.Background(), fb.ID)
	assert.ErrorIs(t, err, ErrNoReply)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	env := newTestEnv(t)
	b := seedBusiness(t, env, "SOFT1234")
	fb := seedFeedback(t, env, b.ID, 3)

	adm := domain.Caller{ID: 9, Role: domain.CallerAdmin}
	require.NoError(t, env.service.DeleteFeedback(context.Background(), adm, fb.ID))

	// deleting twice is a conflict
	assert.ErrorIs(t, env.service.DeleteFeedback(context.Background(), adm, fb.ID), ErrAlreadyDeleted)

	// hidden from the default listing
	list, total, err := env.service.ListFeedbacks(context.Background(), repository.AdminFilters{}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	// visible with the audit flag, carrying who deleted it
	list, total, err = env.service.ListFeedbacks(context.Background(), repository.AdminFilters{IncludeDeleted: true}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DeletedBy)
	assert.Equal(t, int64(9), *list[0].DeletedBy)

	restored, err := env.service.RestoreFeedback(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Nil(t, restored.DeletedBy)

	_, err = env.service.RestoreFeedback(context.Background(), fb.ID)
	assert.ErrorIs(t, err, ErrNotDeleted)
}

func TestListFeedbacksFilters(t *testing.T) {
	env := newTestEnv(t)
	b1 := seedBusiness(t, env, "FILA1234")
	b2 := seedBusiness(t, env, "FILB1234")
	seedFeedback(t, env, b1.ID, 5)
	seedFeedback(t, env, b1.ID, 1)
	seedFeedback(t, env, b2.ID, 1)

	_, total, err := env.service.ListFeedbacks(context.Background(), repository.AdminFilters{BusinessID: b1.ID}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = env.service.ListFeedbacks(context.Background(), repository.AdminFilters{
		Sentiment: domain.SentimentNegative,
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestNotifyBusinessAndBulk(t *testing.T) {
	env := newTestEnv(t)
	b1 := seedBusiness(t, env, "NOTA1234")
	b2 := seedBusiness(t, env, "NOTB1234")

	n, err := env.service.NotifyBusiness(context.Background(), b1.ID, domain.NotifSystem, "Maintenance", "Scheduled downtime tonight")
	require.NoError(t, err)
	assert.Equal(t, domain.IconForType(domain.NotifSystem), n.Icon)

	_, err = env.service.NotifyBusiness(context.Background(), 999, domain.NotifSystem, "t", "m")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	sent, err := env.service.NotifyBulk(context.Background(), []int64{b1.ID, b2.ID}, domain.NotifAppUpdate, "Update", "New version")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestNotifyAllSkipsIneligible(t *testing.T) {
	env := newTestEnv(t)
	seedBusiness(t, env, "ALL11111")
	seedBusiness(t, env, "ALL22222")
	blocked := seedBusiness(t, env, "ALL33333")

	_, err := env.service.BlockBusiness(context.Background(), blocked.ID, "")
	require.NoError(t, err)

	sent, err := env.service.NotifyAll(context.Background(), domain.NotifWeeklySummary, "Summary", "Your week in review")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestGlobalStats(t *testing.T) {
	env := newTestEnv(t)
	b1 := seedBusiness(t, env, "GSA11111")
	b2 := seedBusiness(t, env, "GSB22222")
	seedFeedback(t, env, b1.ID, 5)
	seedFeedback(t, env, b2.ID, 1)

	stats, err := env.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBusinesses)
	assert.Equal(t, int64(2), stats.TotalFeedbacks)
	assert.InDelta(t, 3.0, stats.AverageRating, 0.0001)
	assert.Equal(t, int64(1), stats.Sentiments[string(domain.SentimentPositive)])
	assert.Equal(t, int64(1), stats.Sentiments[string(domain.SentimentNegative)])
}
