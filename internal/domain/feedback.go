package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ClassifySentiment derives sentiment from a rating. It is the only source
// of a feedback's sentiment; the stored value never diverges from it.
func ClassifySentiment(rating float64) Sentiment {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating <= 2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type FeedbackStatus string

const (
	FeedbackNew       FeedbackStatus = "new"
	FeedbackViewed    FeedbackStatus = "viewed"
	FeedbackResponded FeedbackStatus = "responded"
	FeedbackArchived  FeedbackStatus = "archived"
)

// ValidFeedbackStatus reports whether s is a known status value. The
// explicit status-update operation allows any-to-any transitions, so this
// is the only check performed.
func ValidFeedbackStatus(s FeedbackStatus) bool {
	switch s {
	case FeedbackNew, FeedbackViewed, FeedbackResponded, FeedbackArchived:
		return true
	}
	return false
}

type FeedbackCategory string

const (
	CategoryService        FeedbackCategory = "service"
	CategoryProductQuality FeedbackCategory = "product_quality"
	CategoryAmbiance       FeedbackCategory = "ambiance"
	CategoryPricing        FeedbackCategory = "pricing"
	CategoryCleanliness    FeedbackCategory = "cleanliness"
	CategoryOther          FeedbackCategory = "other"
)

type Feedback struct {
	ID            int64            `json:"id" gorm:"primaryKey"`
	BusinessID    int64            `json:"business_id" gorm:"index"`
	Rating        float64          `json:"rating"`
	Comment       string           `json:"comment,omitempty"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	IPAddress     string           `json:"-"`
	Sentiment     Sentiment        `json:"sentiment"`
	Category      FeedbackCategory `json:"category"`
	Status        FeedbackStatus   `json:"status"`
	Location      string           `json:"location,omitempty"`
	Images        []string         `json:"images,omitempty" gorm:"serializer:json"`
	Tags          []string         `json:"tags,omitempty" gorm:"serializer:json"`
	ResponseText  *string          `json:"response_text,omitempty"`
	RespondedAt   *time.Time       `json:"responded_at,omitempty"`
	AdminReply    *string          `json:"admin_reply,omitempty"`
	AdminReplyAt  *time.Time       `json:"admin_reply_at,omitempty"`
	AdminReplyBy  *int64           `json:"admin_reply_by,omitempty"`
	IsHidden      bool             `json:"is_hidden"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
	DeletedBy     *int64           `json:"deleted_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Feedback) TableName() string { return "feedbacks" }

func (f *Feedback) IsDeleted() bool {
	return f.DeletedAt != nil
}
