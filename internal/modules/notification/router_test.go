package notification

import (
	"context"
	"strings"
	"testing"

	"opinor/internal/domain"
	"opinor/internal/modules/keywords"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, terms ...string) (*Router, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	lex, err := keywords.ParseLexicon(strings.NewReader(strings.Join(terms, "\n")))
	require.NoError(t, err)
	return NewRouter(svc, keywords.NewDetector(lex)), svc
}

func routedNotifications(t *testing.T, svc *Service, businessID int64) []domain.Notification {
	t.Helper()
	list, _, err := svc.List(context.Background(), businessID, 1, 100)
	require.NoError(t, err)
	return list
}

func TestRouteFeedbackKeywordMessageCapsAtThree(t *testing.T) {
	r, svc := newTestRouter(t, "fraude", "vol", "arnaque", "scandale", "danger")

	fb := &domain.Feedback{
		ID:         10,
		BusinessID: 1,
		Rating:     3,
		Comment:    "danger, scandale, arnaque, vol et fraude",
	}
	require.NoError(t, r.RouteFeedback(context.Background(), fb))

	notifs := routedNotifications(t, svc, 1)
	require.Len(t, notifs, 2) // keyword alert + neutral rating notification

	var keyword *domain.Notification
	for i := range notifs {
		if notifs[i].Type == domain.NotifCriticalKeywords {
			keyword = &notifs[i]
		}
	}
	require.NotNil(t, keyword)
	// first three in lexicon order, regardless of text order
	assert.Equal(t, "A feedback mentions: fraude, vol, arnaque", keyword.Message)
	require.NotNil(t, keyword.RelatedID)
	assert.Equal(t, int64(10), *keyword.RelatedID)
}

func TestRouteFeedbackRatingBands(t *testing.T) {
	cases := []struct {
		rating float64
		want   domain.NotificationType
	}{
		{1, domain.NotifCriticalNegativeFeedback},
		{2, domain.NotifCriticalNegativeFeedback},
		{2.5, domain.NotifNewFeedback},
		{3, domain.NotifNewFeedback},
		{4, domain.NotifPositiveFeedback},
		{5, domain.NotifPositiveFeedback},
	}

	for _, tc := range cases {
		r, svc := newTestRouter(t, "fraude")
		fb := &domain.Feedback{ID: 1, BusinessID: 1, Rating: tc.rating, Comment: "rien de special"}
		require.NoError(t, r.RouteFeedback(context.Background(), fb))

		notifs := routedNotifications(t, svc, 1)
		require.Len(t, notifs, 1, "rating %v", tc.rating)
		assert.Equal(t, tc.want, notifs[0].Type, "rating %v", tc.rating)
	}
}

func TestRouteFeedbackNoComment(t *testing.T) {
	r, svc := newTestRouter(t, "fraude")

	fb := &domain.Feedback{ID: 1, BusinessID: 1, Rating: 1}
	require.NoError(t, r.RouteFeedback(context.Background(), fb))

	notifs := routedNotifications(t, svc, 1)
	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotifCriticalNegativeFeedback, notifs[0].Type)
}

func TestAccountEventNotifications(t *testing.T) {
	r, svc := newTestRouter(t)

	ctx := context.Background()
	require.NoError(t, r.NotifyAccountBlocked(ctx, 1, ""))
	require.NoError(t, r.NotifyAccountUnblocked(ctx, 1))
	require.NoError(t, r.NotifyPasswordChanged(ctx, 1))
	require.NoError(t, r.NotifyAdminReply(ctx, 1, 42))
	require.NoError(t, r.NotifyQRFirstScan(ctx, 1))
	require.NoError(t, r.NotifyQRScanMilestone(ctx, 1, 20))

	notifs := routedNotifications(t, svc, 1)
	assert.Len(t, notifs, 6)
}

func TestNotifyAccountBlockedReasonOverride(t *testing.T) {
	r, svc := newTestRouter(t)

	require.NoError(t, r.NotifyAccountBlocked(context.Background(), 1, "Payment overdue"))
	notifs := routedNotifications(t, svc, 1)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Payment overdue", notifs[0].Message)
}
