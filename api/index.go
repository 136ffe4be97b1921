package handler

import (
	"net/http"
	"sync"

	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"
	transport "hostel/transport/http"
)

var (
	service *transport.HTTP
	once    sync.Once
)

// Handler is the serverless entry point. Warm invocations reuse the container.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	service.ServeHTTP(w, r)
}
