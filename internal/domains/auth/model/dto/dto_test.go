package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hostel/infras/jwt"
	"hostel/internal/domains/auth/model/dto"
	"hostel/shared"
	"hostel/shared/constant"
	"hostel/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, dto.LoginResponse{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}, response)
}

func TestUpdateLastLoginRequest_TransformFields(t *testing.T) {
	now := timezone.Now()

	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, "user-1")

	assert.Equal(t, now, fields["last_login"])
	assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}
