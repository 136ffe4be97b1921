package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostel/config"
	"hostel/infras/jwt"
	jwtMocks "hostel/infras/jwt/mocks"
	"hostel/infras/otel/mocks"
	"hostel/internal/domains/auth/model/dto"
	"hostel/internal/domains/auth/service"
	userMocks "hostel/internal/domains/user/mocks"
	userModel "hostel/internal/domains/user/model"
	userDto "hostel/internal/domains/user/model/dto"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/password"
	"hostel/shared/timezone"
)

func stringPtr(s string) *string {
	return &s
}

func newUser(t *testing.T, plainPassword string) userModel.User {
	t.Helper()

	hash, err := password.Hash(plainPassword)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "warden@hostel.test",
		Password: hash,
		Level:    constant.RoleAdmin,
		FullName: stringPtr("Hostel Warden"),
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.SystemUser,
			ModifiedBy: constant.SystemUser,
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	validUser := newUser(t, "password123")
	tokenPair := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer", ExpiresIn: 3600}

	tests := []struct {
		name         string
		req          dto.LoginRequest
		setupMock    func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT)
		expectedCode int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(validUser, nil)
				jwtSvc.EXPECT().GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).Return(tokenPair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(validUser, nil)
				jwtSvc.EXPECT().GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).Return(tokenPair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
		},
		{
			name:         "invalid email is rejected before lookup",
			req:          dto.LoginRequest{Email: "not-an-email", Password: "password123"},
			setupMock:    func(_ *userMocks.MockUser, _ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "unknown user",
			req:  dto.LoginRequest{Email: "ghost@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "ghost@hostel.test").Return(userModel.User{}, nil)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "email is matched case-insensitively",
			req:  dto.LoginRequest{Email: " Warden@Hostel.TEST", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(validUser, nil)
				jwtSvc.EXPECT().GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).Return(tokenPair, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "wrongpassword"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(validUser, nil)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				inactiveUser := validUser
				inactiveUser.Active = false

				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(inactiveUser, nil)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "database error",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(userModel.User{}, errors.New("connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().GetByEmail(gomock.Any(), "warden@hostel.test").Return(validUser, nil)
				jwtSvc.EXPECT().GenerateTokenPair(validUser.ID, validUser.Email, validUser.Level).Return(nil, errors.New("token generation failed"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUserRepo := userMocks.NewMockUser(ctrl)
			mockJWT := jwtMocks.NewMockJWT(ctrl)

			tt.setupMock(mockUserRepo, mockJWT)

			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)
			result, err := svc.Login(context.Background(), tt.req)

			if tt.expectedCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
			assert.Equal(t, int64(3600), result.ExpiresIn)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name         string
		req          dto.RefreshTokenRequest
		setupMock    func(jwtSvc *jwtMocks.MockJWT)
		expectedCode int
	}{
		{
			name: "successful token refresh",
			req:  dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"},
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			req:  dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"},
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().RefreshTokens("invalid-refresh-token").Return(nil, errors.New("invalid token"))
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing refresh token",
			req:          dto.RefreshTokenRequest{},
			setupMock:    func(_ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockJWT := jwtMocks.NewMockJWT(ctrl)

			tt.setupMock(mockJWT)

			svc := service.New(userMocks.NewMockUser(ctrl), &config.Config{}, mocks.NewOtel(), mockJWT)
			result, err := svc.RefreshToken(context.Background(), tt.req)

			if tt.expectedCode != 0 {
				assert.Equal(t, tt.expectedCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-access-token", result.AccessToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	validUser := newUser(t, "password123")

	tests := []struct {
		name         string
		req          dto.ChangePasswordRequest
		setupMock    func(repo *userMocks.MockUser)
		expectedCode int
	}{
		{
			name: "successful password change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hashed, _ := fields["password"].(string)
						assert.NoError(t, password.Verify("newpassword123", hashed))

						return nil
					})
			},
		},
		{
			name:         "new password must differ",
			req:          dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"},
			setupMock:    func(_ *userMocks.MockUser) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "update error",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUserRepo := userMocks.NewMockUser(ctrl)

			tt.setupMock(mockUserRepo)

			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))
			err := svc.ChangePassword(context.Background(), tt.req, validUser.ID)

			if tt.expectedCode != 0 {
				assert.Equal(t, tt.expectedCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	validUser := newUser(t, "password123")

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

	mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)

	res, err := svc.Me(context.Background(), validUser.ID)
	require.NoError(t, err)
	assert.Equal(t, validUser.Email, res.Email)
	assert.Equal(t, constant.RoleAdmin, res.Level)
	assert.Nil(t, res.LastLogin)

	mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

	_, err = svc.Me(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestAuthService_CreateAdmin(t *testing.T) {
	tests := []struct {
		name         string
		req          userDto.CreateUserRequest
		setupMock    func(repo *userMocks.MockUser)
		expectedCode int
	}{
		{
			name: "creates admin with normalized email",
			req:  userDto.CreateUserRequest{Email: "  Warden@Hostel.Test ", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, "warden@hostel.test", user.Email)
						assert.Equal(t, constant.RoleAdmin, user.Level)
						assert.True(t, user.Active)
						assert.NoError(t, password.Verify("password123", user.Password))

						return nil
					})
			},
		},
		{
			name: "duplicate email",
			req:  userDto.CreateUserRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "short password",
			req:          userDto.CreateUserRequest{Email: "warden@hostel.test", Password: "short"},
			setupMock:    func(_ *userMocks.MockUser) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "insert loses a race on the unique email index",
			req:  userDto.CreateUserRequest{Email: "warden@hostel.test", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (user): %w", &pq.Error{Code: "23505"}))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "unknown level",
			req:          userDto.CreateUserRequest{Email: "warden@hostel.test", Password: "password123", Level: "student"},
			setupMock:    func(_ *userMocks.MockUser) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockUserRepo := userMocks.NewMockUser(ctrl)

			tt.setupMock(mockUserRepo)

			svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))
			res, err := svc.CreateAdmin(context.Background(), tt.req)

			if tt.expectedCode != 0 {
				assert.Equal(t, tt.expectedCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "warden@hostel.test", res.Email)
			assert.NotEmpty(t, res.ID)
		})
	}
}
