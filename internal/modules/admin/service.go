package admin

import (
	"context"
	"errors"
	"time"

	"opinor/internal/domain"
	"opinor/internal/modules/notification"
	"opinor/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service is the platform-admin surface: cross-business moderation,
// account blocking and targeted or broadcast notifications.
type Service struct {
	businesses *repository.BusinessRepository
	feedbacks  *repository.FeedbackRepository
	notifs     *notification.Service
	router     *notification.Router
	dispatcher *notification.Dispatcher
	log        *zap.Logger
}

func NewService(
	businesses *repository.BusinessRepository,
	feedbacks *repository.FeedbackRepository,
	notifs *notification.Service,
	router *notification.Router,
	dispatcher *notification.Dispatcher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		businesses: businesses,
		feedbacks:  feedbacks,
		notifs:     notifs,
		router:     router,
		dispatcher: dispatcher,
		log:        log,
	}
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

// ListBusinesses pages through every registered business.
func (s *Service) ListBusinesses(ctx context.Context, page, limit int) ([]domain.Business, int64, error) {
	page, limit = clampPage(page, limit)
	return s.businesses.List(ctx, limit, (page-1)*limit)
}

// BlockBusiness marks the account blocked and notifies its owner. The
// notification is sent even though the account is blocked: the owner can
// still read why once unblocked, and mobile push relays on stored rows.
func (s *Service) BlockBusiness(ctx context.Context, id int64, reason string) (*domain.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	now := time.Now()
	b.IsBlocked = true
	b.BlockedReason = reason
	b.BlockedAt = &now
	if err := s.businesses.Update(ctx, b); err != nil {
		return nil, err
	}

	if err := s.router.NotifyAccountBlocked(ctx, b.ID, reason); err != nil {
		s.log.Error("block notification failed", zap.Int64("business_id", b.ID), zap.Error(err))
	}
	return b, nil
}

func (s *Service) UnblockBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	b.IsBlocked = false
	b.BlockedReason = ""
	b.BlockedAt = nil
	if err := s.businesses.Update(ctx, b); err != nil {
		return nil, err
	}

	if err := s.router.NotifyAccountUnblocked(ctx, b.ID); err != nil {
		s.log.Error("unblock notification failed", zap.Int64("business_id", b.ID), zap.Error(err))
	}
	return b, nil
}

// ListFeedbacks is the cross-business moderation listing.
func (s *Service) ListFeedbacks(ctx context.Context, f repository.AdminFilters, page, limit int) ([]domain.Feedback, int64, error) {
	page, limit = clampPage(page, limit)
	f.Limit = limit
	f.Offset = (page - 1) * limit
	return s.feedbacks.ListAll(ctx, f)
}

// ReplyToFeedback attaches (or overwrites) the support reply on a
// feedback and notifies the owning business.
func (s *Service) ReplyToFeedback(ctx context.Context, caller domain.Caller, feedbackID int64, reply string) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	if fb.IsDeleted() {
		return nil, ErrFeedbackNotFound
	}

	now := time.Now()
	fb.AdminReply = &reply
	fb.AdminReplyAt = &now
	fb.AdminReplyBy = &caller.ID
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}

	if err := s.router.NotifyAdminReply(ctx, fb.BusinessID, fb.ID); err != nil {
		s.log.Error("admin reply notification failed", zap.Int64("feedback_id", fb.ID), zap.Error(err))
	}
	return fb, nil
}

// DeleteReply removes the support reply from a feedback.
func (s *Service) DeleteReply(ctx context.Context, feedbackID int64) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	if fb.AdminReply == nil {
		return nil, ErrNoReply
	}

	fb.AdminReply = nil
	fb.AdminReplyAt = nil
	fb.AdminReplyBy = nil
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// DeleteFeedback soft-deletes: the row stays for audit with who deleted
// it and when, but disappears from listings and statistics.
func (s *Service) DeleteFeedback(ctx context.Context, caller domain.Caller, feedbackID int64) error {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}
	if fb.IsDeleted() {
		return ErrAlreadyDeleted
	}

	now := time.Now()
	fb.DeletedAt = &now
	fb.DeletedBy = &caller.ID
	return s.feedbacks.Update(ctx, fb)
}

// RestoreFeedback undoes a soft delete.
func (s *Service) RestoreFeedback(ctx context.Context, feedbackID int64) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	if !fb.IsDeleted() {
		return nil, ErrNotDeleted
	}

	fb.DeletedAt = nil
	fb.DeletedBy = nil
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// NotifyBusiness sends one crafted notification to one business.
func (s *Service) NotifyBusiness(ctx context.Context, businessID int64, t domain.NotificationType, title, message string) (*domain.Notification, error) {
	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return s.notifs.Create(ctx, businessID, t, title, message, nil)
}

// NotifyBulk batch-sends one payload to an explicit recipient list.
// Unknown IDs in the list are not validated; the insert simply records
// rows that no listing will ever surface.
func (s *Service) NotifyBulk(ctx context.Context, businessIDs []int64, t domain.NotificationType, title, message string) (int, error) {
	items := make([]notification.BulkItem, len(businessIDs))
	for i, id := range businessIDs {
		items[i] = notification.BulkItem{
			BusinessID: id,
			Type:       t,
			Title:      title,
			Message:    message,
		}
	}
	return s.notifs.CreateBulk(ctx, items)
}

// NotifyAll broadcasts to every active, unblocked business.
func (s *Service) NotifyAll(ctx context.Context, t domain.NotificationType, title, message string) (int, error) {
	return s.dispatcher.Broadcast(ctx, t, title, message)
}

// Stats aggregates platform-wide numbers for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*GlobalStats, error) {
	_, totalBusinesses, err := s.businesses.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}

	totalFeedbacks, avg, err := s.feedbacks.CountAndAverage(ctx, 0)
	if err != nil {
		return nil, err
	}
	sentiments, err := s.feedbacks.SentimentDistribution(ctx, 0)
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(sentiments))
	for _, row := range sentiments {
		m[row.Key] = row.Count
	}

	return &GlobalStats{
		TotalBusinesses: totalBusinesses,
		TotalFeedbacks:  totalFeedbacks,
		AverageRating:   avg,
		Sentiments:      m,
	}, nil
}
