package qrcode

import (
	"fmt"
	"net/url"
	"strings"
)

const imageEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// ImageURL builds the hosted QR image for an arbitrary target URL.
func ImageURL(target string) string {
	return fmt.Sprintf("%s?size=300x300&data=%s", imageEndpoint, url.QueryEscape(target))
}

// FeedbackPageURL is the customer-facing page a business's QR code
// points at.
func FeedbackPageURL(frontendURL, publicCode string) string {
	return fmt.Sprintf("%s/f/%s", strings.TrimRight(frontendURL, "/"), publicCode)
}
