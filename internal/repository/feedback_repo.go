package repository

import (
	"context"
	"time"

	"opinor/internal/domain"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) DB() *gorm.DB {
	return r.db
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// GetForBusiness resolves a feedback only when it belongs to businessID.
func (r *FeedbackRepository) GetForBusiness(ctx context.Context, id, businessID int64) (*domain.Feedback, error) {
	var f domain.Feedback
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, f *domain.Feedback) error {
	return r.db.WithContext(ctx).Save(f).Error
}

// HasRecentFromIP is the abuse-window lookback: a prior submission from
// the same IP against the same business newer than since. Check-then-write
// is not atomic against a concurrent submission from the same IP; two can
// slip through in the same instant. Accepted — a uniqueness constraint on
// (business, ip, time bucket) would be the fix if it ever matters.
func (r *FeedbackRepository) HasRecentFromIP(ctx context.Context, businessID int64, ip string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Where("business_id = ? AND ip_address = ? AND created_at > ?", businessID, ip, since).
		Count(&count).Error
	return count > 0, err
}

// OwnerFilters narrows the owner-facing listing. Hidden and soft-deleted
// rows are always excluded here.
type OwnerFilters struct {
	Rating float64
	Limit  int
	Offset int
}

func (r *FeedbackRepository) ListForBusiness(ctx context.Context, businessID int64, f OwnerFilters) ([]domain.Feedback, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Where("business_id = ? AND is_hidden = ? AND deleted_at IS NULL", businessID, false)
	if f.Rating > 0 {
		q = q.Where("rating = ?", f.Rating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Feedback
	err := q.Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AdminFilters is the cross-business listing used by admin tooling.
// Soft-deleted rows stay hidden unless IncludeDeleted is set explicitly.
type AdminFilters struct {
	BusinessID     int64
	Rating         float64
	Sentiment      domain.Sentiment
	HasAdminReply  *bool
	IncludeDeleted bool
	Limit          int
	Offset         int
}

func (r *FeedbackRepository) ListAll(ctx context.Context, f AdminFilters) ([]domain.Feedback, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Feedback{})

	if !f.IncludeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	if f.BusinessID > 0 {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.Rating > 0 {
		q = q.Where("rating = ?", f.Rating)
	}
	if f.Sentiment != "" {
		q = q.Where("sentiment = ?", f.Sentiment)
	}
	if f.HasAdminReply != nil {
		if *f.HasAdminReply {
			q = q.Where("admin_reply IS NOT NULL")
		} else {
			q = q.Where("admin_reply IS NULL")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Feedback
	err := q.Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

type DistributionRow struct {
	Key   string
	Count int64
}

// visible scopes a query to rows counted in statistics: not hidden, not
// soft-deleted, optionally one business.
func (r *FeedbackRepository) visible(ctx context.Context, businessID int64) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Where("is_hidden = ? AND deleted_at IS NULL", false)
	if businessID > 0 {
		q = q.Where("business_id = ?", businessID)
	}
	return q
}

func (r *FeedbackRepository) CountAndAverage(ctx context.Context, businessID int64) (int64, float64, error) {
	var row struct {
		Total int64
		Avg   *float64
	}
	err := r.visible(ctx, businessID).
		Select("COUNT(*) AS total, AVG(rating) AS avg").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	avg := 0.0
	if row.Avg != nil {
		avg = *row.Avg
	}
	return row.Total, avg, nil
}

// RatingDistribution groups visible feedback by integer rating.
func (r *FeedbackRepository) RatingDistribution(ctx context.Context, businessID int64) ([]DistributionRow, error) {
	var rows []DistributionRow
	err := r.visible(ctx, businessID).
		Select("CAST(rating AS INTEGER) AS key, COUNT(*) AS count").
		Group("CAST(rating AS INTEGER)").
		Scan(&rows).Error
	return rows, err
}

func (r *FeedbackRepository) SentimentDistribution(ctx context.Context, businessID int64) ([]DistributionRow, error) {
	var rows []DistributionRow
	err := r.visible(ctx, businessID).
		Select("sentiment AS key, COUNT(*) AS count").
		Group("sentiment").
		Scan(&rows).Error
	return rows, err
}

type TrendRow struct {
	Date      string
	Count     int64
	AvgRating float64
}

// DailyTrend returns per-day counts and averages since the given time.
func (r *FeedbackRepository) DailyTrend(ctx context.Context, businessID int64, since time.Time) ([]TrendRow, error) {
	var rows []TrendRow
	err := r.visible(ctx, businessID).
		Where("created_at >= ?", since).
		Select("DATE(created_at) AS date, COUNT(*) AS count, AVG(rating) AS avg_rating").
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&rows).Error
	return rows, err
}
