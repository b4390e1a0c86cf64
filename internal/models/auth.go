package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds the registration payload. Professors may be
// assigned their classes at creation time through ClassIDs.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     Role    `json:"role" validate:"required,oneof=admin professor"`
	Phone    *string `json:"phone"`
	ClassIDs []int64 `json:"classIds"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// JWTClaims is the signed token payload: the caller identity used by the
// access control rules.
type JWTClaims struct {
	UserID int64 `json:"id"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}
