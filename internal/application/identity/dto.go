package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradenet/backend/internal/domain/identity"
	"github.com/tradenet/backend/internal/infrastructure/auth"
)

// timeLayout renders timestamps as UTC with microsecond precision
const timeLayout = "2006-01-02T15:04:05.000000Z"

// RegisterRequest is the request to register a new account
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email,max=100"`
	Password    string  `json:"password" binding:"required,min=8,max=128"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=35"`
	City        *string `json:"city" binding:"omitempty,max=100"`
}

// LoginRequest is the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest revokes the current session's tokens
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	AccessTokenExpiresAt  string `json:"access_token_expires_at"`
	RefreshTokenExpiresAt string `json:"refresh_token_expires_at"`
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number"`
	City        *string   `json:"city"`
	IsStaff     bool      `json:"is_staff"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   string    `json:"created_at"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		City:        user.City,
		IsStaff:     user.IsStaff,
		IsActive:    user.IsActive,
		CreatedAt:   formatTime(user.CreatedAt),
	}
}

// ToTokenResponse converts an issued token pair to its API representation
func ToTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  formatTime(pair.AccessTokenExpiresAt),
		RefreshTokenExpiresAt: formatTime(pair.RefreshTokenExpiresAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
