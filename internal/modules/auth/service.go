package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"opinor/internal/domain"
	"opinor/internal/modules/notification"
	"opinor/internal/modules/qrcode"
	"opinor/internal/pkg/jwt"
	"opinor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const publicCodeLength = 8

// Service handles registration and login for business owners, login for
// platform admins, and password changes.
type Service struct {
	businesses  *repository.BusinessRepository
	admins      *repository.AdminRepository
	jwt         *jwt.Service
	router      *notification.Router
	frontendURL string
	log         *zap.Logger
}

func NewService(
	businesses *repository.BusinessRepository,
	admins *repository.AdminRepository,
	jwtService *jwt.Service,
	router *notification.Router,
	frontendURL string,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		businesses:  businesses,
		admins:      admins,
		jwt:         jwtService,
		router:      router,
		frontendURL: frontendURL,
		log:         log,
	}
}

// newPublicCode derives a short uppercase code from a fresh UUID. The
// column's unique index catches the (astronomically unlikely) collision.
func newPublicCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:publicCodeLength])
}

// Register creates a business account with its public code and QR image
// URL, then returns a token so the owner lands logged in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.businesses.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	businessType := domain.BusinessType(req.BusinessType)
	if businessType == "" {
		businessType = domain.BusinessOther
	}

	code := newPublicCode()
	b := &domain.Business{
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		BusinessType: businessType,
		Address:      req.Address,
		Phone:        req.Phone,
		PublicCode:   code,
		QRCodeURL:    qrcode.ImageURL(qrcode.FeedbackPageURL(s.frontendURL, code)),
		Language:     req.Language,
		IsActive:     true,
	}
	if err := s.businesses.Create(ctx, b); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(b.ID, domain.CallerOwner)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Business: b}, nil
}

// Login authenticates a business owner. A blocked account fails with a
// dedicated error so the frontend can show the support path.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	b, err := s.businesses.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if b.IsBlocked {
		return nil, ErrAccountBlocked
	}
	if !b.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.jwt.GenerateToken(b.ID, domain.CallerOwner)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Business: b}, nil
}

// AdminLogin authenticates a platform admin.
func (s *Service) AdminLogin(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	a, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(a.ID, domain.CallerAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Admin: a}, nil
}

// ChangePassword rotates the owner's password. The confirmation
// notification is fired off the request path; a failure there never
// undoes a successful rotation.
func (s *Service) ChangePassword(ctx context.Context, businessID int64, req ChangePasswordRequest) error {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(req.NewPassword)) == nil {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	b.PasswordHash = string(hash)
	if err := s.businesses.Update(ctx, b); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.router.NotifyPasswordChanged(ctx, businessID); err != nil {
			s.log.Warn("password change notification failed",
				zap.Int64("business_id", businessID),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Me returns the authenticated owner's own account.
func (s *Service) Me(ctx context.Context, businessID int64) (*domain.Business, error) {
	return s.businesses.GetByID(ctx, businessID)
}
