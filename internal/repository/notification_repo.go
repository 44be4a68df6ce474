package repository

import (
	"context"
	"time"

	"opinor/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) DB() *gorm.DB {
	return r.db
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateBatch inserts all notifications in one statement.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

// ListByBusiness returns one page ordered by creation time descending,
// plus the total row count for page metadata.
func (r *NotificationRepository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("business_id = ?", businessID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Notification
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, businessID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("business_id = ? AND is_read = ?", businessID, false).
		Count(&count).Error
	return count, err
}

// GetForBusiness resolves a notification only when it belongs to the
// recipient. The ownership predicate lives in the query so another
// recipient's id behaves exactly like a missing one.
func (r *NotificationRepository) GetForBusiness(ctx context.Context, id, businessID int64) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead flips read state on one owned notification. Marking an
// already-read notification succeeds without touching read_at.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, businessID int64, at time.Time) (*domain.Notification, error) {
	n, err := r.GetForBusiness(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	n.IsRead = true
	n.ReadAt = &at
	err = r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead bulk-flips every unread notification of the recipient.
// Calling it with nothing unread is a no-op.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, businessID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("business_id = ? AND is_read = ?", businessID, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

// Delete hard-removes one owned notification.
func (r *NotificationRepository) Delete(ctx context.Context, id, businessID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
