package feedback

import (
	"errors"
	"net/http"
	"strconv"

	"opinor/internal/domain"
	"opinor/internal/pkg/response"
	"opinor/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the anonymous customer endpoints. No auth.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/feedback/:code", h.Submit)
	rg.GET("/feedback/:code/stats", h.PublicStats)
}

// RegisterOwnerRoutes mounts the authenticated dashboard endpoints.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/feedbacks", h.List)
	rg.GET("/feedbacks/stats", h.Stats)
	rg.GET("/feedbacks/:id", h.Get)
	rg.POST("/feedbacks/:id/respond", h.Respond)
	rg.PATCH("/feedbacks/:id/hide", h.Hide)
	rg.PATCH("/feedbacks/:id/unhide", h.Unhide)
	rg.PATCH("/feedbacks/:id/status", h.UpdateStatus)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", fields)
		return
	}

	fb, err := h.service.Submit(c.Request.Context(), c.Param("code"), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrBusinessNotFound):
			response.Error(c, http.StatusNotFound, "Business not found")
		case errors.Is(err, ErrInvalidRating):
			response.Error(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "You have already submitted feedback recently")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to submit feedback")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":      fb.ID,
		"message": "Thank you for your feedback",
	})
}

func (h *Handler) PublicStats(c *gin.Context) {
	stats, err := h.service.PublicStatsByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(c, http.StatusNotFound, "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) List(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rating, _ := strconv.ParseFloat(c.DefaultQuery("rating", "0"), 64)

	list, total, err := h.service.List(c.Request.Context(), businessID, rating, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list feedbacks")
		return
	}

	page, limit = clampPage(page, limit)
	response.Success(c, http.StatusOK, ListResponse{
		Feedbacks:  list,
		Pagination: response.NewPagination(page, limit, total),
	})
}

func (h *Handler) Stats(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	stats, err := h.service.Stats(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Get(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	fb, err := h.service.Get(c.Request.Context(), businessID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Feedback not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load feedback")
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) Respond(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Response text is required")
		return
	}

	fb, err := h.service.Respond(c.Request.Context(), businessID, id, req.ResponseText)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Feedback not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to respond to feedback")
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) Hide(c *gin.Context)   { h.setHidden(c, true) }
func (h *Handler) Unhide(c *gin.Context) { h.setHidden(c, false) }

func (h *Handler) setHidden(c *gin.Context, hidden bool) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	fb, err := h.service.SetHidden(c.Request.Context(), businessID, id, hidden)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Feedback not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to update feedback")
		return
	}
	response.Success(c, http.StatusOK, fb)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid feedback ID")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Status is required")
		return
	}

	fb, err := h.service.UpdateStatus(c.Request.Context(), businessID, id, domain.FeedbackStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "Feedback not found")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "Invalid feedback status")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update feedback")
		}
		return
	}
	response.Success(c, http.StatusOK, fb)
}
