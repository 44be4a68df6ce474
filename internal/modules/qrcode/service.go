package qrcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opinor/internal/modules/notification"
	"opinor/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrBusinessNotFound = errors.New("business not found")

const dailyKeyTTL = 48 * time.Hour

// Service resolves QR scans to businesses and tracks scan activity. The
// durable per-business total lives in the database; the per-day counter
// behind milestone alerts lives in redis because it is ephemeral and
// contended. With redis down, scans still resolve and count toward the
// total; only daily milestones go silent.
type Service struct {
	businesses    *repository.BusinessRepository
	router        *notification.Router
	rdb           *redis.Client
	milestoneStep int64
	frontendURL   string
	log           *zap.Logger
}

func NewService(
	businesses *repository.BusinessRepository,
	router *notification.Router,
	rdb *redis.Client,
	milestoneStep int64,
	frontendURL string,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if milestoneStep <= 0 {
		milestoneStep = 10
	}
	return &Service{
		businesses:    businesses,
		router:        router,
		rdb:           rdb,
		milestoneStep: milestoneStep,
		frontendURL:   frontendURL,
		log:           log,
	}
}

func dailyScanKey(businessID int64, day time.Time) string {
	return fmt.Sprintf("qr:scans:%d:%s", businessID, day.Format("2006-01-02"))
}

// RecordScan registers one scan of a business's QR code and returns the
// feedback page URL to redirect the customer to.
func (s *Service) RecordScan(ctx context.Context, code string) (string, error) {
	b, err := s.businesses.GetByPublicCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBusinessNotFound
		}
		return "", err
	}
	if !b.Eligible() {
		return "", ErrBusinessNotFound
	}

	firstEver := b.QRScans == 0
	if err := s.businesses.IncrementQRScans(ctx, b.ID); err != nil {
		s.log.Error("qr scan counter update failed", zap.Int64("business_id", b.ID), zap.Error(err))
	} else if firstEver {
		if err := s.router.NotifyQRFirstScan(ctx, b.ID); err != nil {
			s.log.Warn("first scan notification failed", zap.Int64("business_id", b.ID), zap.Error(err))
		}
	}

	s.trackDaily(ctx, b.ID)

	return FeedbackPageURL(s.frontendURL, b.PublicCode), nil
}

// trackDaily bumps the redis per-day counter and fires a milestone alert
// on every Nth scan of the day. All failures here degrade to a log line.
func (s *Service) trackDaily(ctx context.Context, businessID int64) {
	if s.rdb == nil {
		return
	}

	key := dailyScanKey(businessID, time.Now())
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		s.log.Warn("daily scan counter unavailable", zap.Int64("business_id", businessID), zap.Error(err))
		return
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, dailyKeyTTL).Err(); err != nil {
			s.log.Warn("daily scan counter expiry failed", zap.String("key", key), zap.Error(err))
		}
	}

	if count%s.milestoneStep == 0 {
		if err := s.router.NotifyQRScanMilestone(ctx, businessID, count); err != nil {
			s.log.Warn("scan milestone notification failed", zap.Int64("business_id", businessID), zap.Error(err))
		}
	}
}

// ScansToday reads the redis daily counter. Zero with no error when
// redis is unavailable; the dashboard shows the durable total anyway.
func (s *Service) ScansToday(ctx context.Context, businessID int64) int64 {
	if s.rdb == nil {
		return 0
	}
	count, err := s.rdb.Get(ctx, dailyScanKey(businessID, time.Now())).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn("daily scan counter read failed", zap.Int64("business_id", businessID), zap.Error(err))
	}
	return count
}

// OwnerQR is the dashboard payload: image URL, target page and counters.
func (s *Service) OwnerQR(ctx context.Context, businessID int64) (*QRInfo, error) {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	page := FeedbackPageURL(s.frontendURL, b.PublicCode)
	info := &QRInfo{
		PublicCode:  b.PublicCode,
		ImageURL:    b.QRCodeURL,
		FeedbackURL: page,
		TotalScans:  b.QRScans,
		ScansToday:  s.ScansToday(ctx, businessID),
	}
	if info.ImageURL == "" {
		info.ImageURL = ImageURL(page)
	}
	return info, nil
}

type QRInfo struct {
	PublicCode  string `json:"public_code"`
	ImageURL    string `json:"image_url"`
	FeedbackURL string `json:"feedback_url"`
	TotalScans  int64  `json:"total_scans"`
	ScansToday  int64  `json:"scans_today"`
}
