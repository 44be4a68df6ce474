package auth

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"opinor/internal/database"
	"opinor/internal/domain"
	"opinor/internal/modules/keywords"
	"opinor/internal/modules/notification"
	jwtsvc "opinor/internal/pkg/jwt"
	"opinor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	service    *Service
	jwt        *jwtsvc.Service
	businesses *repository.BusinessRepository
	admins     *repository.AdminRepository
	notifs     *notification.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	businessRepo := repository.NewBusinessRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	notifService := notification.NewService(repository.NewNotificationRepository(db), nil, nil)

	lex, err := keywords.ParseLexicon(strings.NewReader(""))
	require.NoError(t, err)
	router := notification.NewRouter(notifService, keywords.NewDetector(lex))

	j := jwtsvc.New("test-secret", time.Hour)
	return &testEnv{
		service:    NewService(businessRepo, adminRepo, j, router, "https://opinor.test", nil),
		jwt:        j,
		businesses: businessRepo,
		admins:     adminRepo,
		notifs:     notifService,
	}
}

func register(t *testing.T, env *testEnv, email string) *AuthResponse {
	t.Helper()
	resp, err := env.service.Register(context.Background(), RegisterRequest{
		Email:        email,
		Password:     "password123",
		BusinessName: "Chez Test",
		BusinessType: string(domain.BusinessRestaurant),
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesCodeAndToken(t *testing.T) {
	env := newTestEnv(t)

	resp := register(t, env, "owner@test.local")
	require.NotNil(t, resp.Business)

	assert.Len(t, resp.Business.PublicCode, publicCodeLength)
	assert.Equal(t, strings.ToUpper(resp.Business.PublicCode), resp.Business.PublicCode)
	assert.Contains(t, resp.Business.QRCodeURL, "api.qrserver.com")
	assert.True(t, resp.Business.IsActive)

	claims, err := env.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Business.ID, claims.UserID)
	assert.Equal(t, domain.CallerOwner, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "dup@test.local")

	_, err := env.service.Register(context.Background(), RegisterRequest{
		Email:        "dup@test.local",
		Password:     "password123",
		BusinessName: "Other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "login@test.local")

	resp, err := env.service.Login(context.Background(), LoginRequest{
		Email:    "login@test.local",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "login@test.local",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "nobody@test.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedAccount(t *testing.T) {
	env := newTestEnv(t)
	resp := register(t, env, "blocked@test.local")

	b, err := env.businesses.GetByID(context.Background(), resp.Business.ID)
	require.NoError(t, err)
	b.IsBlocked = true
	require.NoError(t, env.businesses.Update(context.Background(), b))

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "blocked@test.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.admins.Create(context.Background(), &domain.Admin{
		Email:        "admin@test.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}))

	resp, err := env.service.AdminLogin(context.Background(), LoginRequest{
		Email:    "admin@test.local",
		Password: "admin-pass",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Admin)

	claims, err := env.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.CallerAdmin, claims.Role)

	_, err = env.service.AdminLogin(context.Background(), LoginRequest{
		Email:    "admin@test.local",
		Password: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	resp := register(t, env, "rotate@test.local")

	err := env.service.ChangePassword(context.Background(), resp.Business.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	// reusing the current password is rejected before any write
	err = env.service.ChangePassword(context.Background(), resp.Business.ID, ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "password123",
	})
	assert.ErrorIs(t, err, ErrSamePassword)

	err = env.service.ChangePassword(context.Background(), resp.Business.ID, ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "rotate@test.local",
		Password: "new-password-1",
	})
	require.NoError(t, err)

	_, err = env.service.Login(context.Background(), LoginRequest{
		Email:    "rotate@test.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
