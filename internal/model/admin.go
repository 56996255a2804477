package model

import (
	"time"
)

type AdminUser struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateAdminUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

type AdminSession struct {
	ID        string    `db:"id" json:"id"`
	AdminID   string    `db:"admin_id" json:"adminId"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminSessionParams struct {
	AdminID   string
	TokenHash string
	ExpiresAt time.Time
}

// AdminPasswordReset holds the hash of a one-time reset token. The raw
// token is only ever delivered in the reset email.
type AdminPasswordReset struct {
	ID        string     `db:"id" json:"id"`
	AdminID   string     `db:"admin_id" json:"adminId"`
	TokenHash string     `db:"token_hash" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	UsedAt    *time.Time `db:"used_at" json:"usedAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type CreateAdminPasswordResetParams struct {
	AdminID   string
	TokenHash string
	ExpiresAt time.Time
}
