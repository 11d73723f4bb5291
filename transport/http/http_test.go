package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusbook/config"
	jwtMocks "campusbook/infras/jwt/mocks"
	otelMocks "campusbook/infras/otel/mocks"
	"campusbook/permissions"
	"campusbook/shared/constant"
	transport "campusbook/transport/http"
	"campusbook/transport/http/middleware"
	"campusbook/transport/http/router"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction

	tracer := otelMocks.NewOtel()
	app := middleware.NewAppMiddleware(tracer, cfg, nil)
	authRole := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(gomock.NewController(t)), tracer, permissions.Get(), cfg)

	return transport.New(cfg, router.New(router.DomainHandlers{}), app, authRole)
}

func TestHTTP_HealthFollowsState(t *testing.T) {
	tests := []struct {
		name       string
		state      transport.ServerState
		wantHealth int
		wantRoute  int
	}{
		{name: "ready", state: transport.ServerStateReady, wantHealth: http.StatusOK, wantRoute: http.StatusNotFound},
		{name: "grace period", state: transport.ServerStateInGracePeriod, wantHealth: http.StatusServiceUnavailable, wantRoute: http.StatusNotFound},
		{name: "cleanup period", state: transport.ServerStateInCleanupPeriod, wantHealth: http.StatusServiceUnavailable, wantRoute: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t)
			server.SetState(tt.state)

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantHealth, rec.Code)

			rec = httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
			assert.Equal(t, tt.wantRoute, rec.Code)
		})
	}
}
