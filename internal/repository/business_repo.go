package repository

import (
	"context"
	"strings"

	"opinor/internal/domain"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) DB() *gorm.DB {
	return r.db
}

func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	var b domain.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) GetByEmail(ctx context.Context, email string) (*domain.Business, error) {
	var b domain.Business
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) GetByPublicCode(ctx context.Context, code string) (*domain.Business, error) {
	var b domain.Business
	err := r.db.WithContext(ctx).
		Where("public_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) Update(ctx context.Context, b *domain.Business) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// List returns a page of businesses ordered by creation time descending.
func (r *BusinessRepository) List(ctx context.Context, limit, offset int) ([]domain.Business, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Business{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Business
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListEligible snapshots every active, unblocked business. Broadcast
// eligibility is evaluated here once, not re-checked per write.
func (r *BusinessRepository) ListEligible(ctx context.Context) ([]domain.Business, error) {
	var list []domain.Business
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_blocked = ?", true, false).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// IncrementQRScans bumps the persistent total scan counter.
func (r *BusinessRepository) IncrementQRScans(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("id = ?", id).
		UpdateColumn("qr_scans", gorm.Expr("qr_scans + 1")).Error
}
