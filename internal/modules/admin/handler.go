package admin

import (
	"errors"
	"net/http"
	"strconv"

	"opinor/internal/domain"
	"opinor/internal/pkg/response"
	"opinor/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin endpoints. The group must carry both
// the auth middleware and the admin role check.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/businesses", h.ListBusinesses)
	rg.PATCH("/businesses/:id/block", h.BlockBusiness)
	rg.PATCH("/businesses/:id/unblock", h.UnblockBusiness)

	rg.GET("/feedbacks", h.ListFeedbacks)
	rg.POST("/feedbacks/:id/reply", h.ReplyToFeedback)
	rg.DELETE("/feedbacks/:id/reply", h.DeleteReply)
	rg.DELETE("/feedbacks/:id", h.DeleteFeedback)
	rg.PATCH("/feedbacks/:id/restore", h.RestoreFeedback)

	rg.POST("/notifications/business/:id", h.NotifyBusiness)
	rg.POST("/notifications/bulk", h.NotifyBulk)
	rg.POST("/notifications/broadcast", h.NotifyAll)

	rg.GET("/stats", h.Stats)
}

func caller(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:   c.GetInt64("user_id"),
		Role: c.GetString("role"),
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return clampPage(page, limit)
}

func (h *Handler) ListBusinesses(c *gin.Context) {
	page, limit := pageParams(c)

	list, total, err := h.service.ListBusinesses(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list businesses")
		return
	}
	response.Success(c, http.StatusOK, BusinessListResponse{
		Businesses: list,
		Pagination: response.NewPagination(page, limit, total),
	})
}

func (h *Handler) BlockBusiness(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	var req BlockRequest
	_ = c.ShouldBindJSON(&req) // reason is optional, empty body allowed

	b, err := h.service.BlockBusiness(c.Request.Context(), id, req.Reason)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(c, http.StatusNotFound, "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to block business")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UnblockBusiness(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	b, err := h.service.UnblockBusiness(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(c, http.StatusNotFound, "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to unblock business")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListFeedbacks(c *gin.Context) {
	page, limit := pageParams(c)

	var filters repository.AdminFilters
	filters.BusinessID, _ = strconv.ParseInt(c.Query("business_id"), 10, 64)
	filters.Rating, _ = strconv.ParseFloat(c.Query("rating"), 64)
	filters.Sentiment = domain.Sentiment(c.Query("sentiment"))
	filters.IncludeDeleted = c.Query("include_deleted") == "true"
	if v := c.Query("has_admin_reply"); v != "" {
		has := v == "true"
		filters.HasAdminReply = &has
	}

	list, total, err := h.service.ListFeedbacks(c.Request.Context(), filters, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list feedbacks")
		return
	}
	response.Success(c, http.StatusOK, FeedbackListResponse{
		Feedbacks:  list,
		Pagination: response.NewPagination(page, limit, total),
	})
}

func (h *Handler) ReplyToFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Reply text is required")
		return
	}

	fb, err := h.service.ReplyToFeedback(c.Request.Context(), caller(c), id, req.Reply)
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			response.Error(c, http.StatusNotFound, "Feedback not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to reply to feedback")
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) DeleteReply(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	fb, err := h.service.DeleteReply(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrFeedbackNotFound):
			response.Error(c, http.StatusNotFound, "Feedback not found")
		case errors.Is(err, ErrNoReply):
			response.Error(c, http.StatusBadRequest, "Feedback has no reply")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to delete reply")
		}
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) DeleteFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	if err := h.service.DeleteFeedback(c.Request.Context(), caller(c), id); err != nil {
		switch {
		case errors.Is(err, ErrFeedbackNotFound):
			response.Error(c, http.StatusNotFound, "Feedback not found")
		case errors.Is(err, ErrAlreadyDeleted):
			response.Error(c, http.StatusConflict, "Feedback already deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to delete feedback")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Feedback deleted"})
}

func (h *Handler) RestoreFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	fb, err := h.service.RestoreFeedback(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrFeedbackNotFound):
			response.Error(c, http.StatusNotFound, "Feedback not found")
		case errors.Is(err, ErrNotDeleted):
			response.Error(c, http.StatusBadRequest, "Feedback is not deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to restore feedback")
		}
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) NotifyBusiness(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Type, title and message are required")
		return
	}

	n, err := h.service.NotifyBusiness(c.Request.Context(), id, domain.NotificationType(req.Type), req.Title, req.Message)
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(c, http.StatusNotFound, "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to send notification")
		return
	}
	response.Success(c, http.StatusCreated, n)
}

func (h *Handler) NotifyBulk(c *gin.Context) {
	var req NotifyBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Business IDs, type, title and message are required")
		return
	}

	sent, err := h.service.NotifyBulk(c.Request.Context(), req.BusinessIDs, domain.NotificationType(req.Type), req.Title, req.Message)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to send notifications")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"sent": sent})
}

func (h *Handler) NotifyAll(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Type, title and message are required")
		return
	}

	sent, err := h.service.NotifyAll(c.Request.Context(), domain.NotificationType(req.Type), req.Title, req.Message)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to broadcast notification")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"sent": sent})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
