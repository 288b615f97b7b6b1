package auth

import (
	authModels "nefllix/src/modules/auth/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Token      string `json:"token" binding:"required"`
}

type VerificationTokenRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	TTLMinutes int    `json:"ttlMinutes"`
}

// LinkAccountRequest carries what an identity provider returned for a user.
type LinkAccountRequest struct {
	Type              string `json:"type" binding:"required"`
	Provider          string `json:"provider" binding:"required"`
	ProviderAccountID string `json:"providerAccountId" binding:"required"`
	RefreshToken      string `json:"refresh_token"`
	AccessToken       string `json:"access_token"`
	ExpiresAt         *int64 `json:"expires_at"`
	TokenType         string `json:"token_type"`
	Scope             string `json:"scope"`
	IDToken           string `json:"id_token"`
	SessionState      string `json:"session_state"`
}

type OAuthSignInRequest struct {
	LinkAccountRequest
	Email string `json:"email" binding:"omitempty,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AccountView is an account as shown to its owner.
type AccountView struct {
	authModels.Account
	TokenValid bool `json:"tokenValid"`
}
