package feedback

import (
	"opinor/internal/domain"
	"opinor/internal/pkg/response"
)

type SubmitRequest struct {
	Rating        float64  `json:"rating" validate:"required,min=1,max=5"`
	Comment       string   `json:"comment" validate:"max=4000"`
	CustomerName  string   `json:"customer_name" validate:"max=120"`
	CustomerEmail string   `json:"customer_email" validate:"omitempty,email"`
	Category      string   `json:"category"`
	Location      string   `json:"location" validate:"max=255"`
	Images        []string `json:"images"`
	Tags          []string `json:"tags"`
}

type RespondRequest struct {
	ResponseText string `json:"response_text" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListResponse struct {
	Feedbacks  []domain.Feedback   `json:"feedbacks"`
	Pagination response.Pagination `json:"pagination"`
}

// PublicStats is the stripped-down view shown on the public feedback page.
type PublicStats struct {
	BusinessName  string          `json:"business_name"`
	TotalCount    int64           `json:"total_count"`
	AverageRating float64         `json:"average_rating"`
	Distribution  map[string]int64 `json:"rating_distribution"`
}

// OwnerStats is the dashboard view: everything in PublicStats plus
// sentiment split and the recent daily trend.
type OwnerStats struct {
	TotalCount    int64            `json:"total_count"`
	AverageRating float64          `json:"average_rating"`
	Distribution  map[string]int64 `json:"rating_distribution"`
	Sentiments    map[string]int64 `json:"sentiment_distribution"`
	DailyTrend    []TrendEntry     `json:"daily_trend"`
}

type TrendEntry struct {
	Date      string  `json:"date"`
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}
