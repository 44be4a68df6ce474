package notification

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"opinor/internal/database"
	"opinor/internal/domain"
	"opinor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(repository.NewNotificationRepository(db), nil, nil), db
}

func TestCreateDerivesIcon(t *testing.T) {
	svc, _ := newTestService(t)

	n, err := svc.Create(context.Background(), 1, domain.NotifCriticalKeywords, "t", "m", nil)
	require.NoError(t, err)
	assert.Equal(t, "warning", n.Icon)
	assert.False(t, n.IsRead)

	n, err = svc.Create(context.Background(), 1, "unmapped_type", "t", "m", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultIcon, n.Icon)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, _ := newTestService(t)

	n, err := svc.Create(context.Background(), 1, domain.NotifSystem, "t", "m", nil)
	require.NoError(t, err)

	// another recipient sees not-found, not forbidden
	_, err = svc.MarkRead(context.Background(), 2, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.MarkRead(context.Background(), 1, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	require.NotNil(t, got.ReadAt)
	firstReadAt := *got.ReadAt

	// marking again keeps the original read time
	got, err = svc.MarkRead(context.Background(), 1, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)
	assert.WithinDuration(t, firstReadAt, *got.ReadAt, time.Second)
}

func TestMarkAllReadIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), 1, domain.NotifSystem, "t", "m", nil)
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(context.Background(), 1))
	count, err := svc.UnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// second pass finds nothing unread and succeeds
	require.NoError(t, svc.MarkAllRead(context.Background(), 1))
}

func TestUnreadCountScopedToRecipient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, domain.NotifSystem, "t", "m", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 2, domain.NotifSystem, "t", "m", nil)
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteOwnership(t *testing.T) {
	svc, _ := newTestService(t)

	n, err := svc.Create(context.Background(), 1, domain.NotifSystem, "t", "m", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), 2, n.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, n.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, n.ID), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		n := &domain.Notification{
			BusinessID: 1,
			Type:       domain.NotifSystem,
			Title:      fmt.Sprintf("n%d", i),
			Message:    "m",
			Icon:       domain.DefaultIcon,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(n).Error)
	}

	list, total, err := svc.List(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, list, 2)
	assert.Equal(t, "n4", list[0].Title)
	assert.Equal(t, "n3", list[1].Title)

	list, _, err = svc.List(context.Background(), 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n0", list[0].Title)
}

func TestListClampsPageParams(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, domain.NotifSystem, "t", "m", nil)
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), 1, -1, 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestCreateBulk(t *testing.T) {
	svc, _ := newTestService(t)

	sent, err := svc.CreateBulk(context.Background(), []BulkItem{
		{BusinessID: 1, Type: domain.NotifSystem, Title: "a", Message: "m"},
		{BusinessID: 2, Type: domain.NotifAppUpdate, Title: "b", Message: "m"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	count, err := svc.UnreadCount(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sent, err = svc.CreateBulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, sent)
}
