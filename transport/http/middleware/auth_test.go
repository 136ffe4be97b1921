package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hostel/config"
	"hostel/infras/jwt"
	jwtMocks "hostel/infras/jwt/mocks"
	"hostel/infras/otel/mocks"
	"hostel/permissions"
	"hostel/shared/constant"
	"hostel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const apiKey = "internal-key"

func newRouter(t *testing.T, setupMock func(m *jwtMocks.MockJWT)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	setupMock(jwtService)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	auth := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), permissions.Get(), cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.Header().Set("X-User", user)
		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Use(auth.APIKey, auth.Auth, auth.RBAC)
	router.Get("/roomdetails", echo)
	router.Post("/roomdetails", echo)
	router.Delete("/roomdetails/{id}", echo)

	return router
}

func claims(role string) *jwt.Claims {
	return &jwt.Claims{UserID: "user-1", Email: "warden@hostel.test", Role: role, TokenID: "t1"}
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		headers      map[string]string
		setupMock    func(m *jwtMocks.MockJWT)
		expectedCode int
		expectedUser string
	}{
		{
			name:         "public route without token",
			method:       http.MethodGet,
			path:         "/roomdetails",
			setupMock:    func(_ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusNoContent,
		},
		{
			name:    "public route keeps a valid identity",
			method:  http.MethodGet,
			path:    "/roomdetails",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleAdmin), nil)
			},
			expectedCode: http.StatusNoContent,
			expectedUser: "user-1",
		},
		{
			name:         "protected route without token",
			method:       http.MethodPost,
			path:         "/roomdetails",
			setupMock:    func(_ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodPost,
			path:    "/roomdetails",
			headers: map[string]string{"Authorization": "Bearer old"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:    "admin creates a room",
			method:  http.MethodPost,
			path:    "/roomdetails",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleAdmin), nil)
			},
			expectedCode: http.StatusNoContent,
			expectedUser: "user-1",
		},
		{
			name:    "admin cannot delete",
			method:  http.MethodDelete,
			path:    "/roomdetails/RM-000001",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleAdmin), nil)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:    "superadmin deletes",
			method:  http.MethodDelete,
			path:    "/roomdetails/RM-000001",
			headers: map[string]string{"Authorization": "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleSuperAdmin), nil)
			},
			expectedCode: http.StatusNoContent,
			expectedUser: "user-1",
		},
		{
			name:         "api key bypasses the token",
			method:       http.MethodDelete,
			path:         "/roomdetails/RM-000001",
			headers:      map[string]string{"X-API-Key": apiKey},
			setupMock:    func(_ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusNoContent,
			expectedUser: constant.SystemUser,
		},
		{
			name:         "wrong api key",
			method:       http.MethodGet,
			path:         "/roomdetails",
			headers:      map[string]string{"X-API-Key": "guess"},
			setupMock:    func(_ *jwtMocks.MockJWT) {},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.setupMock)

			request := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedCode, recorder.Code)
			assert.Equal(t, tt.expectedUser, recorder.Header().Get("X-User"))
		})
	}
}
