package domain

import "time"

type NotificationType string

const (
	// Critical alerts
	NotifCriticalNegativeFeedback NotificationType = "critical_negative_feedback"
	NotifCriticalKeywords         NotificationType = "critical_keywords"
	NotifLowSatisfactionScore     NotificationType = "low_satisfaction_score"

	// Positive feedback
	NotifPositiveFeedback NotificationType = "positive_feedback"
	NotifCompliment       NotificationType = "compliment"

	// Admin, subscription and account events
	NotifSubscriptionExpiring NotificationType = "subscription_expiring"
	NotifPaymentConfirmed     NotificationType = "payment_confirmed"
	NotifTrialEnding          NotificationType = "trial_ending"
	NotifAccountBlocked       NotificationType = "account_blocked"
	NotifAccountUnblocked     NotificationType = "account_unblocked"
	NotifPasswordChanged      NotificationType = "password_changed"
	NotifAdminReply           NotificationType = "admin_reply"

	// Performance trend events
	NotifPerformanceDrop        NotificationType = "performance_drop"
	NotifPerformanceImprovement NotificationType = "performance_improvement"
	NotifShiftPerformance       NotificationType = "shift_performance"

	// Insights and reports
	NotifReportReady   NotificationType = "report_ready"
	NotifWeeklySummary NotificationType = "weekly_summary"
	NotifInsightAlert  NotificationType = "insight_alert"

	// System events
	NotifQRFirstScan     NotificationType = "qr_first_scan"
	NotifQRScanMilestone NotificationType = "qr_scan_milestone"
	NotifAppUpdate       NotificationType = "app_update"
	NotifSystem          NotificationType = "system"

	// Legacy types kept for old rows
	NotifNewFeedback         NotificationType = "new_feedback"
	NotifAchievementUnlocked NotificationType = "achievement_unlocked"
	NotifRatingAlert         NotificationType = "rating_alert"
)

// DefaultIcon is returned for any type the icon table does not know.
// Rendering must never fail on an unmapped type.
const DefaultIcon = "notifications-outline"

var notificationIcons = map[NotificationType]string{
	NotifCriticalNegativeFeedback: "alert-circle",
	NotifCriticalKeywords:         "warning",
	NotifLowSatisfactionScore:     "trending-down",

	NotifPositiveFeedback: "happy-outline",
	NotifCompliment:       "heart",

	NotifSubscriptionExpiring: "card-outline",
	NotifPaymentConfirmed:     "checkmark-circle",
	NotifTrialEnding:          "hourglass-outline",
	NotifAccountBlocked:       "lock-closed",
	NotifAccountUnblocked:     "lock-open",
	NotifPasswordChanged:      "key-outline",
	NotifAdminReply:           "chatbox-ellipses",

	NotifPerformanceDrop:        "trending-down",
	NotifPerformanceImprovement: "trending-up",
	NotifShiftPerformance:       "swap-horizontal",

	NotifReportReady:   "document-outline",
	NotifWeeklySummary: "calendar-outline",
	NotifInsightAlert:  "bulb-outline",

	NotifQRFirstScan:     "qr-code-outline",
	NotifQRScanMilestone: "qr-code",
	NotifAppUpdate:       "cloud-download-outline",
	NotifSystem:          "notifications-outline",

	NotifNewFeedback:         "chatbubble-outline",
	NotifAchievementUnlocked: "star",
	NotifRatingAlert:         "alert-circle",
}

// IconForType maps a notification type to its icon key. Total: unknown
// types fall back to DefaultIcon instead of an error.
func IconForType(t NotificationType) string {
	if icon, ok := notificationIcons[t]; ok {
		return icon
	}
	return DefaultIcon
}

// KnownNotificationTypes returns every type the taxonomy defines.
func KnownNotificationTypes() []NotificationType {
	types := make([]NotificationType, 0, len(notificationIcons))
	for t := range notificationIcons {
		types = append(types, t)
	}
	return types
}

// Notification is a persisted alert addressed to one business owner.
type Notification struct {
	ID         int64            `json:"id" gorm:"primaryKey"`
	BusinessID int64            `json:"business_id" gorm:"index:idx_notifications_business_read"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	RelatedID  *int64           `json:"related_id,omitempty"`
	Icon       string           `json:"icon"`
	IsRead     bool             `json:"is_read" gorm:"index:idx_notifications_business_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
