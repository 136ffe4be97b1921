package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostel/config"
	"hostel/infras/otel/mocks"
	cacheMocks "hostel/shared/cache/mocks"
	"hostel/shared/constant"
	transport "hostel/transport/http"
	"hostel/transport/http/middleware"
	"hostel/transport/http/router"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, cfg *config.Config, cache *cacheMocks.MockRedisCache) *transport.HTTP {
	t.Helper()

	ot := mocks.NewOtel()

	r := router.New(cfg, router.DomainHandlers{}, router.Middlewares{
		App:      middleware.NewAppMiddleware(ot, cfg, cache),
		AuthRole: middleware.NewAuthRoleMiddleware(nil, ot, nil, cfg),
	})

	return transport.New(cfg, r, transport.Resources{})
}

func TestHTTP_Health(t *testing.T) {
	ctrl := gomock.NewController(t)

	server := newServer(t, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl))

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, transport.ServerStateReady, server.State())
}

func TestHTTP_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "health goes through the middleware chain",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "protected route without a token",
			method:     http.MethodPost,
			path:       "/roomdetails",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nowhere",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = true
			cfg.App.RateLimiter.MaxRequests = 10
			cfg.App.RateLimiter.WindowSeconds = 60

			cache := cacheMocks.NewMockRedisCache(ctrl)
			cache.EXPECT().Incr(gomock.Any(), gomock.Any(), time.Minute).Return(int64(1), nil)

			server := newServer(t, cfg, cache)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			assert.Equal(t, "9", recorder.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}
