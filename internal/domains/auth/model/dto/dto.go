package dto

import (
	"time"

	"hostel/infras/jwt"
	userDto "hostel/internal/domains/user/model/dto"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,nefield=CurrentPassword"`
}

// LoginResponse is also returned by the refresh endpoint.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func (l *LoginResponse) FromTokenPair(pair *jwt.TokenPair) {
	*l = LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type RefreshTokenResponse = LoginResponse

type MeResponse = userDto.UserResponse

// Column updates applied through shared.TransformFields.
type (
	UpdateLastLoginRequest struct {
		LastLogin time.Time `db:"last_login"`
	}

	UpdatePasswordRequest struct {
		Password string `db:"password"`
	}
)
