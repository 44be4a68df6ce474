package notification

import (
	"time"

	"opinor/internal/domain"
	"opinor/internal/pkg/response"
)

type NotificationResponse struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	RelatedID *int64  `json:"related_id,omitempty"`
	Icon      string  `json:"icon"`
	IsRead    bool    `json:"is_read"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func NotificationResponseFromEntity(n *domain.Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Icon:      n.Icon,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}

type ListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Pagination    response.Pagination     `json:"pagination"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
