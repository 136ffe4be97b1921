package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"hostel/shared"
	"hostel/shared/constant"
	"hostel/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client and user agent in a fixed window. When the
// counter cannot be reached the request goes through unmetered.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent(r))
			window := time.Duration(limits.WindowSeconds) * time.Second

			count, err := a.cache.Incr(r.Context(), key, window)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limits.MaxRequests)-count), 10))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > int64(limits.MaxRequests) {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if chain := r.Header.Get(constant.RequestHeaderForwardedFor); chain != "" {
		first, _, _ := strings.Cut(chain, ",")

		return strings.TrimSpace(first)
	}

	if ip := strings.TrimSpace(r.Header.Get(constant.RequestHeaderRealIP)); ip != "" {
		return ip
	}

	return r.RemoteAddr
}
