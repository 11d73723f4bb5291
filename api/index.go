package handler

import (
	"net/http"
	"sync"

	"campusbook/config"
	"campusbook/di"
	"campusbook/shared/logger"
	"campusbook/transport/http/response"
)

var (
	once    sync.Once
	server  http.Handler
	initErr error
)

// Handler is the serverless entrypoint. Dependencies are built on the first request and reused.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server, _, initErr = di.InitializeService()
	})

	if initErr != nil {
		response.WithUnhealthy(w)

		return
	}

	server.ServeHTTP(w, r)
}
