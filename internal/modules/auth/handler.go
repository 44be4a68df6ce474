package auth

import (
	"errors"
	"net/http"

	"opinor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/admin/login", h.AdminLogin)
}

// RegisterOwnerRoutes mounts the endpoints behind the auth middleware.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
	rg.POST("/auth/change-password", h.ChangePassword)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid registration data")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to register")
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, ErrAccountBlocked):
			response.Error(c, http.StatusForbidden, "Account is blocked. Please contact support.")
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "Account is inactive")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to login")
		}
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.service.AdminLogin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to login")
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	b, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load account")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Current and new password are required")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), c.GetInt64("user_id"), req); err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.Error(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, ErrSamePassword):
			response.Error(c, http.StatusBadRequest, "New password must be different from current password")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}
