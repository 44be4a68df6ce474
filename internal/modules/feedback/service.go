package feedback

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
	trendDays       = 7
)

// RateLimitConfig controls the per-IP abuse window on public submissions.
// When disabled, repeated submissions from the same IP are accepted.
type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
}

// Service owns the feedback lifecycle: anonymous submission through the
// public code, owner-side triage and statistics.
type Service struct {
	feedbacks  *repository.FeedbackRepository
	businesses *repository.BusinessRepository
	router     *notification.Router
	rateLimit  RateLimitConfig
	log        *zap.Logger
}

func NewService(
	feedbacks *repository.FeedbackRepository,
	businesses *repository.BusinessRepository,
	router *notification.Router,
	rateLimit RateLimitConfig,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		feedbacks:  feedbacks,
		businesses: businesses,
		router:     router,
		rateLimit:  rateLimit,
		log:        log,
	}
}

// resolveByCode maps a public code to a business that may accept
// feedback. An inactive or blocked business is reported exactly like a
// missing one so the code leaks nothing about account state.
func (s *Service) resolveByCode(ctx context.Context, code string) (*domain.Business, error) {
	b, err := s.businesses.GetByPublicCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	if !b.Eligible() {
		return nil, ErrBusinessNotFound
	}
	return b, nil
}

// Submit records an anonymous feedback against the business behind the
// public code and fires notification routing. Routing failures are
// logged, never surfaced: the customer's submission already succeeded.
func (s *Service) Submit(ctx context.Context, code string, req SubmitRequest, ip string) (*domain.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.resolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.rateLimit.Enabled && ip != "" {
		since := time.Now().Add(-s.rateLimit.Window)
		recent, err := s.feedbacks.HasRecentFromIP(ctx, b.ID, ip, since)
		if err != nil {
			return nil, err
		}
		if recent {
			return nil, ErrRateLimited
		}
	}

	category := domain.FeedbackCategory(req.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	fb := &domain.Feedback{
		BusinessID:    b.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		IPAddress:     ip,
		Sentiment:     domain.ClassifySentiment(req.Rating),
		Category:      category,
		Status:        domain.FeedbackNew,
		Location:      req.Location,
		Images:        req.Images,
		Tags:          req.Tags,
	}
	if err := s.feedbacks.Create(ctx, fb); err != nil {
		return nil, err
	}

	if err := s.router.RouteFeedback(ctx, fb); err != nil {
		s.log.Error("notification routing failed",
			zap.Int64("feedback_id", fb.ID),
			zap.Int64("business_id", fb.BusinessID),
			zap.Error(err),
		)
	}
	return fb, nil
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

// List returns one page of the owner's visible feedback, newest first.
func (s *Service) List(ctx context.Context, businessID int64, rating float64, page, limit int) ([]domain.Feedback, int64, error) {
	page, limit = clampPage(page, limit)
	return s.feedbacks.ListForBusiness(ctx, businessID, repository.OwnerFilters{
		Rating: rating,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
}

// Get fetches one owned feedback and advances it from new to viewed.
// The transition happens only on the first read; later statuses stick.
func (s *Service) Get(ctx context.Context, businessID, id int64) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetForBusiness(ctx, id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fb.IsDeleted() {
		return nil, ErrNotFound
	}

	if fb.Status == domain.FeedbackNew {
		fb.Status = domain.FeedbackViewed
		if err := s.feedbacks.Update(ctx, fb); err != nil {
			return nil, err
		}
	}
	return fb, nil
}

// Respond stores the owner's reply and marks the feedback responded.
// Replying again overwrites the previous response.
func (s *Service) Respond(ctx context.Context, businessID, id int64, text string) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetForBusiness(ctx, id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fb.IsDeleted() {
		return nil, ErrNotFound
	}

	now := time.Now()
	fb.ResponseText = &text
	fb.RespondedAt = &now
	fb.Status = domain.FeedbackResponded
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// SetHidden toggles a feedback out of (or back into) the owner's listing
// and statistics. Hiding is reversible, unlike soft deletion.
func (s *Service) SetHidden(ctx context.Context, businessID, id int64, hidden bool) (*domain.Feedback, error) {
	fb, err := s.feedbacks.GetForBusiness(ctx, id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fb.IsDeleted() {
		return nil, ErrNotFound
	}

	fb.IsHidden = hidden
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// UpdateStatus sets an explicit status. Any known status can be set from
// any other; only unknown values are rejected.
func (s *Service) UpdateStatus(ctx context.Context, businessID, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	if !domain.ValidFeedbackStatus(status) {
		return nil, ErrInvalidStatus
	}

	fb, err := s.feedbacks.GetForBusiness(ctx, id, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fb.IsDeleted() {
		return nil, ErrNotFound
	}

	fb.Status = status
	if err := s.feedbacks.Update(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// PublicStatsByCode aggregates visible feedback for the public page
// behind a business's code.
func (s *Service) PublicStatsByCode(ctx context.Context, code string) (*PublicStats, error) {
	b, err := s.resolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	total, avg, err := s.feedbacks.CountAndAverage(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	dist, err := s.feedbacks.RatingDistribution(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return &PublicStats{
		BusinessName:  b.BusinessName,
		TotalCount:    total,
		AverageRating: avg,
		Distribution:  distributionMap(dist),
	}, nil
}

// Stats builds the owner dashboard aggregates. businessID == 0 yields
// the cross-business view used by admin tooling.
func (s *Service) Stats(ctx context.Context, businessID int64) (*OwnerStats, error) {
	total, avg, err := s.feedbacks.CountAndAverage(ctx, businessID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.feedbacks.RatingDistribution(ctx, businessID)
	if err != nil {
		return nil, err
	}
	sentiments, err := s.feedbacks.SentimentDistribution(ctx, businessID)
	if err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -trendDays)
	trend, err := s.feedbacks.DailyTrend(ctx, businessID, since)
	if err != nil {
		return nil, err
	}

	entries := make([]TrendEntry, len(trend))
	for i, row := range trend {
		entries[i] = TrendEntry{Date: row.Date, Count: row.Count, AvgRating: row.AvgRating}
	}

	return &OwnerStats{
		TotalCount:    total,
		AverageRating: avg,
		Distribution:  distributionMap(ratings),
		Sentiments:    distributionMap(sentiments),
		DailyTrend:    entries,
	}, nil
}

// distributionMap keys every bucket that occurred; absent buckets are
// simply missing, the frontend fills zeroes.
func distributionMap(rows []repository.DistributionRow) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Key] = r.Count
	}
	return m
}
