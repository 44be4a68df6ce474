package admin

import (
	"opinor/internal/domain"
	"opinor/internal/pkg/response"
)

type ReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

type BlockRequest struct {
	Reason string `json:"reason"`
}

type NotifyRequest struct {
	Type    string `json:"type" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type NotifyBulkRequest struct {
	BusinessIDs []int64 `json:"business_ids" binding:"required,min=1"`
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Message     string  `json:"message" binding:"required"`
}

type BusinessListResponse struct {
	Businesses []domain.Business   `json:"businesses"`
	Pagination response.Pagination `json:"pagination"`
}

type FeedbackListResponse struct {
	Feedbacks  []domain.Feedback   `json:"feedbacks"`
	Pagination response.Pagination `json:"pagination"`
}

// GlobalStats is the platform-wide admin dashboard view.
type GlobalStats struct {
	TotalBusinesses int64            `json:"total_businesses"`
	TotalFeedbacks  int64            `json:"total_feedbacks"`
	AverageRating   float64          `json:"average_rating"`
	Sentiments      map[string]int64 `json:"sentiment_distribution"`
}
