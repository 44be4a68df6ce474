package domain

import "time"

type BusinessType string

const (
	BusinessRestaurant BusinessType = "RESTAURANT"
	BusinessBeach      BusinessType = "BEACH"
	BusinessClinic     BusinessType = "CLINIC"
	BusinessCafe       BusinessType = "CAFE"
	BusinessHotel      BusinessType = "HOTEL"
	BusinessRetail     BusinessType = "RETAIL"
	BusinessOther      BusinessType = "OTHER"
)

// Business is the feedback-collecting tenant. Customers reach it through
// PublicCode (usually printed as a QR code), owners log in with Email.
type Business struct {
	ID            int64        `json:"id" gorm:"primaryKey"`
	Email         string       `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	PasswordHash  string       `json:"-"`
	BusinessName  string       `json:"business_name"`
	BusinessType  BusinessType `json:"business_type"`
	Address       string       `json:"address,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	PublicCode    string       `json:"public_code" gorm:"uniqueIndex"`
	QRCodeURL     string       `json:"qr_code_url,omitempty"`
	Language      string       `json:"language,omitempty"`
	IsActive      bool         `json:"is_active"`
	IsBlocked     bool         `json:"is_blocked"`
	BlockedReason string       `json:"blocked_reason,omitempty"`
	BlockedAt     *time.Time   `json:"blocked_at,omitempty"`
	QRScans       int64        `json:"qr_scans"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Business) TableName() string { return "businesses" }

// Eligible reports whether the business may receive broadcast notifications.
func (b *Business) Eligible() bool {
	return b.IsActive && !b.IsBlocked
}
