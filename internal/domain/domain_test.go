package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySentiment(t *testing.T) {
	assert.Equal(t, SentimentNegative, ClassifySentiment(1))
	assert.Equal(t, SentimentNegative, ClassifySentiment(2))
	assert.Equal(t, SentimentNeutral, ClassifySentiment(2.5))
	assert.Equal(t, SentimentNeutral, ClassifySentiment(3))
	assert.Equal(t, SentimentNeutral, ClassifySentiment(3.9))
	assert.Equal(t, SentimentPositive, ClassifySentiment(4))
	assert.Equal(t, SentimentPositive, ClassifySentiment(5))
}

func TestValidFeedbackStatus(t *testing.T) {
	assert.True(t, ValidFeedbackStatus(FeedbackNew))
	assert.True(t, ValidFeedbackStatus(FeedbackViewed))
	assert.True(t, ValidFeedbackStatus(FeedbackResponded))
	assert.True(t, ValidFeedbackStatus(FeedbackArchived))
	assert.False(t, ValidFeedbackStatus("deleted"))
	assert.False(t, ValidFeedbackStatus(""))
}

func TestIconForTypeCoversEveryKnownType(t *testing.T) {
	for _, typ := range KnownNotificationTypes() {
		assert.NotEmpty(t, IconForType(typ), "type %s must map to an icon", typ)
	}
}

func TestIconForTypeFallback(t *testing.T) {
	assert.Equal(t, DefaultIcon, IconForType("something_unmapped"))
}

func TestBusinessEligible(t *testing.T) {
	b := &Business{IsActive: true}
	assert.True(t, b.Eligible())

	b.IsBlocked = true
	assert.False(t, b.Eligible())

	b = &Business{IsActive: false}
	assert.False(t, b.Eligible())
}
