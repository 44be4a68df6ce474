package notification

import (
	"context"
	"errors"
	"time"

	"opinor/internal/domain"
	"opinor/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service owns the notification lifecycle: creation, read state, deletion
// and paginated retrieval. Every write derives the icon from the type, so
// stored rows always render.
type Service struct {
	repo *repository.NotificationRepository
	hub  *Hub
	log  *zap.Logger
}

func NewService(repo *repository.NotificationRepository, hub *Hub, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, hub: hub, log: log}
}

func clampPage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}

// List returns one page of the recipient's notifications, newest first,
// with the total count for page metadata.
func (s *Service) List(ctx context.Context, businessID int64, page, limit int) ([]domain.Notification, int64, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit
	return s.repo.ListByBusiness(ctx, businessID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, businessID int64) (int64, error) {
	return s.repo.CountUnread(ctx, businessID)
}

// MarkRead flips one owned notification to read. A notification belonging
// to another recipient is indistinguishable from a missing one.
func (s *Service) MarkRead(ctx context.Context, businessID, id int64) (*domain.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, businessID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// MarkAllRead is idempotent; a second call finds nothing unread and
// changes nothing.
func (s *Service) MarkAllRead(ctx context.Context, businessID int64) error {
	return s.repo.MarkAllRead(ctx, businessID, time.Now())
}

func (s *Service) Delete(ctx context.Context, businessID, id int64) error {
	err := s.repo.Delete(ctx, id, businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Create persists a single notification and pushes it to any live
// websocket subscriber. The push is best-effort and never blocks.
func (s *Service) Create(ctx context.Context, businessID int64, t domain.NotificationType, title, message string, relatedID *int64) (*domain.Notification, error) {
	n := &domain.Notification{
		BusinessID: businessID,
		Type:       t,
		Title:      title,
		Message:    message,
		RelatedID:  relatedID,
		Icon:       domain.IconForType(t),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Publish(n)
	}
	return n, nil
}

// BulkItem is one recipient's entry in a batch send.
type BulkItem struct {
	BusinessID int64
	Type       domain.NotificationType
	Title      string
	Message    string
}

// CreateBulk batch-inserts notifications for an explicit recipient list.
func (s *Service) CreateBulk(ctx context.Context, items []BulkItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ns := make([]domain.Notification, len(items))
	for i, it := range items {
		ns[i] = domain.Notification{
			BusinessID: it.BusinessID,
			Type:       it.Type,
			Title:      it.Title,
			Message:    it.Message,
			Icon:       domain.IconForType(it.Type),
		}
	}
	if err := s.repo.CreateBatch(ctx, ns); err != nil {
		return 0, err
	}
	if s.hub != nil {
		for i := range ns {
			s.hub.Publish(&ns[i])
		}
	}
	return len(ns), nil
}
