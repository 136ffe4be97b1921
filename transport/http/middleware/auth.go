package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"hostel/config"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// bypassKey marks requests already authenticated by the API key.
type bypassKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	tokens      jwt.JWT
	otel        otel.Otel
	permissions *permissions.PermissionData
	cfg         *config.Config
}

func NewAuthRoleMiddleware(tokens jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{tokens: tokens, otel: otel, permissions: permissions, cfg: cfg}
}

func bypassed(ctx context.Context) bool {
	skip, _ := ctx.Value(bypassKey{}).(bool)

	return skip
}

func withIdentity(ctx context.Context, userID, email, role, tokenID string) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)
}

// Auth resolves the bearer token into an identity on the request context. Public
// routes are served without one, yet still pick up a valid token when sent.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		if bypassed(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "middleware.auth")
		defer scope.End()

		pattern := routePattern(request)
		public := m.permissions != nil && m.permissions.IsPublic(pattern, request.Method)

		scope.SetAttributes(map[string]any{
			"http.route":  pattern,
			"http.method": request.Method,
			"http.public": public,
		})

		claims, err := m.authenticate(request.Header.Get(constant.RequestHeaderAuthorization))

		switch {
		case err == nil:
			ctx = withIdentity(ctx, claims.UserID, claims.Email, claims.Role, claims.TokenID)
		case public:
		default:
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) authenticate(header string) (*jwt.Claims, error) {
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header")
	}

	raw, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.tokens.ValidateToken(raw, jwt.AccessToken)

	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return nil, failure.Unauthorized("Invalid token claims")
	case err != nil:
		return nil, failure.Unauthorized("Invalid token")
	}

	if claims.UserID == "" || claims.Email == "" {
		log.Warn().Str("token_id", claims.TokenID).Msg("access token without subject")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

// RBAC admits the request when the role set by Auth is listed for the route.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		if bypassed(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "middleware.rbac")
		defer scope.End()

		if m.permissions == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		pattern := routePattern(request)
		if m.permissions.IsPublic(pattern, request.Method) {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if rule := m.permissions.FindPermissions(pattern, request.Method); !rule.Allows(role) {
			scope.SetAttributes(map[string]any{"user.role": role, "route.roles": rule.Permissions})
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey authenticates internal callers as the system superadmin. Requests without
// the header fall through to Auth; a wrong key is refused outright.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			next.ServeHTTP(writer, request)

			return
		}

		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "middleware.api_key")
		defer scope.End()

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx := context.WithValue(request.Context(), bypassKey{}, true)
		ctx = withIdentity(ctx, constant.SystemUser, "", constant.RoleSuperAdmin, "")

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// routePattern resolves the chi pattern of the request, e.g. /roomdetails/{id}.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != "" {
		return pattern
	}

	return request.URL.Path
}
