package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hostel/config"
	"hostel/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrMissingHeader = errors.New("authorization header is required")
	ErrInvalidScheme = errors.New("authorization header must start with 'Bearer '")
)

const (
	bearerScheme = "Bearer"
	bearerPrefix = bearerScheme + " "
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims identify an administrator. Type stops a refresh token from being replayed as an
// access token when both secrets are equal.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(userID, email, role string) (*TokenPair, error)
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
}

type signer struct {
	issuer  string
	secrets map[TokenType][]byte
	ttl     map[TokenType]time.Duration
	parser  *jwt.Parser
}

// New signs HS256 tokens with separate access and refresh secrets.
func New(cfg *config.Config) JWT {
	return &signer{
		issuer: cfg.App.Name,
		secrets: map[TokenType][]byte{
			AccessToken:  []byte(cfg.JWT.AccessSecret),
			RefreshToken: []byte(cfg.JWT.RefreshSecret),
		},
		ttl: map[TokenType]time.Duration{
			AccessToken:  time.Duration(cfg.JWT.AccessExpireMin) * time.Minute,
			RefreshToken: time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute,
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *signer) GenerateTokenPair(userID, email, role string) (*TokenPair, error) {
	now := timezone.Now()
	pair := &TokenPair{
		TokenType: bearerScheme,
		ExpiresIn: int64(s.ttl[AccessToken] / time.Second),
	}

	var err error

	if pair.AccessToken, err = s.sign(userID, email, role, AccessToken, now); err != nil {
		return nil, err
	}

	if pair.RefreshToken, err = s.sign(userID, email, role, RefreshToken, now); err != nil {
		return nil, err
	}

	return pair, nil
}

func (s *signer) sign(userID, email, role string, tokenType TokenType, issuedAt time.Time) (string, error) {
	secret, ok := s.secrets[tokenType]
	if !ok {
		return "", fmt.Errorf("unknown token type: %s", tokenType)
	}

	tokenID := uuid.NewString()
	claims := Claims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		TokenID: tokenID,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl[tokenType])),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// ValidateToken checks signature, expiry and that the token is of tokenType.
func (s *signer) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	secret, ok := s.secrets[tokenType]
	if !ok {
		return nil, fmt.Errorf("unknown token type: %s", tokenType)
	}

	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *signer) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return s.GenerateTokenPair(claims.UserID, claims.Email, claims.Role)
}

// ExtractTokenFromHeader strips the Bearer scheme from an Authorization header value.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return "", ErrInvalidScheme
	}

	return token, nil
}
