package notification

import (
	"context"
	"fmt"
	"strings"

	"opinor/internal/domain"
	"opinor/internal/modules/keywords"
)

// maxKeywordsInMessage caps how many matched terms a keyword alert embeds.
// The detector reports matches in lexicon order, so the cap is stable for
// a given lexicon.
const maxKeywordsInMessage = 3

// Router decides which notifications a new feedback produces, and which
// single notification each moderation or account event produces.
type Router struct {
	notifs   *Service
	detector *keywords.Detector
}

func NewRouter(notifs *Service, detector *keywords.Detector) *Router {
	return &Router{notifs: notifs, detector: detector}
}

// RouteFeedback fires the two independent triggers for a newly created
// feedback. A 1-star review with a critical keyword produces two
// notifications: content risk and satisfaction trend are separate signals
// and are not collapsed into one message.
func (r *Router) RouteFeedback(ctx context.Context, fb *domain.Feedback) error {
	if matched := r.detector.Detect(fb.Comment); len(matched) > 0 {
		shown := matched
		if len(shown) > maxKeywordsInMessage {
			shown = shown[:maxKeywordsInMessage]
		}
		_, err := r.notifs.Create(ctx, fb.BusinessID,
			domain.NotifCriticalKeywords,
			"Critical keywords detected",
			fmt.Sprintf("A feedback mentions: %s", strings.Join(shown, ", ")),
			&fb.ID,
		)
		if err != nil {
			return err
		}
	}

	switch {
	case fb.Rating <= 2:
		_, err := r.notifs.Create(ctx, fb.BusinessID,
			domain.NotifCriticalNegativeFeedback,
			"Critical negative feedback",
			fmt.Sprintf("A customer left a %.0f-star review", fb.Rating),
			&fb.ID,
		)
		return err
	case fb.Rating >= 4:
		_, err := r.notifs.Create(ctx, fb.BusinessID,
			domain.NotifPositiveFeedback,
			"Positive feedback",
			fmt.Sprintf("A customer left a %.0f-star review", fb.Rating),
			&fb.ID,
		)
		return err
	default:
		_, err := r.notifs.Create(ctx, fb.BusinessID,
			domain.NotifNewFeedback,
			"New feedback",
			fmt.Sprintf("A customer left a %.1f-star review", fb.Rating),
			&fb.ID,
		)
		return err
	}
}

// NotifyAdminReply alerts the feedback's business owner that an admin
// replied to one of their reviews.
func (r *Router) NotifyAdminReply(ctx context.Context, businessID, feedbackID int64) error {
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifAdminReply,
		"Support replied to a feedback",
		"Our team replied to one of your customer reviews",
		&feedbackID,
	)
	return err
}

func (r *Router) NotifyAccountBlocked(ctx context.Context, businessID int64, reason string) error {
	msg := "Your account has been blocked. Please contact support or complete your payment."
	if reason != "" {
		msg = reason
	}
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifAccountBlocked,
		"Account Blocked",
		msg,
		nil,
	)
	return err
}

func (r *Router) NotifyAccountUnblocked(ctx context.Context, businessID int64) error {
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifAccountUnblocked,
		"Account Unblocked",
		"Your account has been unblocked. You can now login and use all features.",
		nil,
	)
	return err
}

func (r *Router) NotifyPasswordChanged(ctx context.Context, businessID int64) error {
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifPasswordChanged,
		"Password Changed",
		"Your password was changed successfully. If this wasn't you, contact support immediately.",
		nil,
	)
	return err
}

func (r *Router) NotifyQRFirstScan(ctx context.Context, businessID int64) error {
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifQRFirstScan,
		"First QR scan",
		"Your QR code was scanned for the first time. Your feedback page is live!",
		nil,
	)
	return err
}

func (r *Router) NotifyQRScanMilestone(ctx context.Context, businessID, scansToday int64) error {
	_, err := r.notifs.Create(ctx, businessID,
		domain.NotifQRScanMilestone,
		"QR scan milestone",
		fmt.Sprintf("Your QR code was scanned %d times today", scansToday),
		nil,
	)
	return err
}
