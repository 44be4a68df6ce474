package notification

import (
	"errors"
	"net/http"
	"strconv"

	"opinor/internal/pkg/jwt"
	"opinor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwt.Service
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{service: service, hub: hub, jwt: jwtService}
}

// RegisterRoutes mounts the owner-facing notification endpoints. The
// group is expected to carry the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.GET("/notifications/unread-count", h.UnreadCount)
	rg.PATCH("/notifications/:id/read", h.MarkRead)
	rg.PATCH("/notifications/read-all", h.MarkAllRead)
	rg.DELETE("/notifications/:id", h.Delete)
}

// RegisterStreamRoute mounts the websocket endpoint outside the regular
// auth middleware; the token travels as a query parameter because
// browsers cannot set headers on websocket upgrades.
func (h *Handler) RegisterStreamRoute(rg *gin.RouterGroup) {
	rg.GET("/ws/notifications", h.Stream)
}

func (h *Handler) List(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifs, total, err := h.service.List(c.Request.Context(), businessID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	page, limit = clampPage(page, limit)
	items := make([]*NotificationResponse, len(notifs))
	for i := range notifs {
		items[i] = NotificationResponseFromEntity(&notifs[i])
	}

	response.Success(c, http.StatusOK, ListResponse{
		Notifications: items,
		Pagination:    response.NewPagination(page, limit, total),
	})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	count, err := h.service.UnreadCount(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to count notifications")
		return
	}
	response.Success(c, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), businessID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}
	response.Success(c, http.StatusOK, NotificationResponseFromEntity(n))
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	if err := h.service.MarkAllRead(c.Request.Context(), businessID); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to mark notifications as read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *Handler) Delete(c *gin.Context) {
	businessID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), businessID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Notification deleted"})
}

// Stream upgrades the request to a websocket delivering notification
// events as they are created.
func (h *Handler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "Missing token")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, claims.UserID); err != nil {
		// Upgrade failures already wrote an HTTP error to the client.
		return
	}
}
