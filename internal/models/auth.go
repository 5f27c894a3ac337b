package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the identity claim attached to authenticated requests. It
// carries everything the authorization core needs so downstream checks never
// re-derive tenant or scope.
type JWTClaims struct {
	UserID       string      `json:"user_id"`
	OrgID        string      `json:"org_id"`
	Role         UserRole    `json:"role"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	AdminLevel   *AdminLevel `json:"admin_level,omitempty"`
	DepartmentID *string     `json:"department_id,omitempty"`
	ClassID      *string     `json:"class_id,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload. Either email or registration
// number identifies the account.
type LoginRequest struct {
	Email              string   `json:"email" validate:"omitempty,email"`
	RegistrationNumber string   `json:"registration_number" validate:"omitempty"`
	Password           string   `json:"password" validate:"required"`
	Role               UserRole `json:"role" validate:"required"`
}

// RegisterRequest creates a non-admin account inside an organization
// identified by code.
type RegisterRequest struct {
	RegistrationNumber string   `json:"registration_number"`
	Name               string   `json:"name" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	Password           string   `json:"password" validate:"required,min=8"`
	Role               UserRole `json:"role" validate:"required"`
	OrgCode            string   `json:"org_code" validate:"required"`
}

// UserInfo is the public projection of a user returned on login.
type UserInfo struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       UserRole    `json:"role"`
	OrgID      string      `json:"org_id"`
	AdminLevel *AdminLevel `json:"admin_level,omitempty"`
}

// OrgInfo is the public projection of an organization returned on login.
type OrgInfo struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
	Org       OrgInfo   `json:"org"`
}
