package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/internal/domains/auth/model/dto"
	userModel "hostel/internal/domains/user/model"
	userDto "hostel/internal/domains/user/model/dto"
	userRepo "hostel/internal/domains/user/repository"
	"hostel/shared"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/identifier"
	"hostel/shared/password"
	"hostel/shared/timezone"
	"hostel/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	errInvalidCredentials = "invalid email or password"
	errUserNotFound       = "user not found"
	errEmailTaken         = "email already registered"
)

// decoyHash is compared against when the email is unknown, so a miss costs as much
// as a wrong password.
var decoyHash = sync.OnceValue(func() string {
	hash, _ := password.Hash("decoy-password")

	return hash
})

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
	Me(ctx context.Context, userID string) (userDto.UserResponse, error)
	CreateAdmin(ctx context.Context, req userDto.CreateUserRequest) (userDto.UserResponse, error)
}

type serviceImpl struct {
	users  userRepo.User
	cfg    *config.Config
	otel   otel.Otel
	tokens jwt.JWT
}

func New(users userRepo.User, cfg *config.Config, otel otel.Otel, tokens jwt.JWT) Auth {
	return &serviceImpl{users: users, cfg: cfg, otel: otel, tokens: tokens}
}

func (s *serviceImpl) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth."+operation)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.scope(ctx, "Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.Email = normalizeEmail(req.Email)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return res, fmt.Errorf("failed to look up user: %w", err)
	}

	hash := user.Password
	if user.ID == "" {
		hash = decoyHash()
	}

	if err = password.Verify(req.Password, hash); err != nil || user.ID == "" {
		log.Warn().Str("email", req.Email).Msg("rejected login")

		return res, failure.Unauthorized(errInvalidCredentials)
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Level)
	if err != nil {
		return res, fmt.Errorf("failed to issue tokens: %w", err)
	}

	stamp := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}, user.ID)
	if err := s.users.Update(ctx, stamp, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.scope(ctx, "RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	pair, err := s.tokens.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rejected")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.scope(ctx, "ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return failure.BadRequest(err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, userID)
	if err = s.users.Update(ctx, fields, shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}

	return nil
}

func (s *serviceImpl) Me(ctx context.Context, userID string) (res userDto.UserResponse, err error) {
	ctx, scope := s.scope(ctx, "Me")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.find(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

// CreateAdmin provisions a back office account. The admin bootstrap command uses it.
func (s *serviceImpl) CreateAdmin(ctx context.Context, req userDto.CreateUserRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.scope(ctx, "CreateAdmin")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.Email = normalizeEmail(req.Email)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	taken, err := s.users.Exist(ctx, userRepo.ByEmail(req.Email))
	if err != nil {
		return res, fmt.Errorf("failed to check email: %w", err)
	}

	if taken {
		return res, failure.Conflict(errEmailTaken)
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	user := req.ToModel(constant.SystemUser, hashed)

	err = s.users.Insert(ctx, user)

	switch {
	case identifier.IsUniqueViolation(err):
		return res, failure.Conflict(errEmailTaken)
	case err != nil:
		return res, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("level", user.Level).Msg("administrator created")
	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, userID string) (userModel.User, error) {
	user, err := s.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return user, failure.NotFound(errUserNotFound)
	}

	return user, nil
}
