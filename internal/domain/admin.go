package domain

import "time"

type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPER_ADMIN"
	RoleAdmin      AdminRole = "ADMIN"
)

type Admin struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Admin) TableName() string { return "admins" }

// Caller is the identity a transport boundary resolved from a token.
// Core services take it instead of digging through request context.
type Caller struct {
	ID   int64
	Role string
}

const (
	CallerOwner = "owner"
	CallerAdmin = "admin"
)
