package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusbook/config"
	"campusbook/infras/jwt"
	jwtMocks "campusbook/infras/jwt/mocks"
	otelMocks "campusbook/infras/otel/mocks"
	"campusbook/permissions"
	"campusbook/shared/constant"
	"campusbook/shared/secret"
	"campusbook/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const serviceKey = "internal-service-key"

func newMux(t *testing.T, jwtService jwt.JWT) (*chi.Mux, *permissions.Actor) {
	t.Helper()

	hash, err := secret.Hash(serviceKey)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKeyHash = hash

	authRole := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)

	seen := &permissions.Actor{}
	record := func(w http.ResponseWriter, r *http.Request) {
		*seen = permissions.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}

	mux := chi.NewRouter()
	mux.Route("/v1", func(group chi.Router) {
		group.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		group.Post("/bookings/priority", record)
		group.Get("/bookings/mybookings", record)
	})

	return mux, seen
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		header     map[string]string
		claims     *jwt.Claims
		claimsErr  error
		wantStatus int
		wantActor  permissions.Actor
	}{
		{
			name:       "missing header",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			header:     map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			claimsErr:  jwt.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "claims without email are rejected",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			header:     map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:     &jwt.Claims{UserID: "u-1", Role: "Faculty"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "faculty lists own bookings",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			header:     map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:     &jwt.Claims{UserID: "u-1", Email: "ravi@campus.edu", Name: "Ravi", Role: "Faculty"},
			wantStatus: http.StatusNoContent,
			wantActor:  permissions.Actor{ID: "u-1", Email: "ravi@campus.edu", Name: "Ravi", Role: permissions.RoleFaculty},
		},
		{
			name:       "faculty cannot create priority bookings",
			method:     http.MethodPost,
			target:     "/v1/bookings/priority",
			header:     map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:     &jwt.Claims{UserID: "u-1", Email: "ravi@campus.edu", Role: "Faculty"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "service key acts as system admin",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			header:     map[string]string{constant.RequestHeaderAPIKey: serviceKey},
			wantStatus: http.StatusNoContent,
			wantActor:  permissions.Actor{ID: constant.ActorService, Name: constant.ActorService, Role: permissions.RoleSystemAdmin},
		},
		{
			name:       "wrong service key",
			method:     http.MethodGet,
			target:     "/v1/bookings/mybookings",
			header:     map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))

			if tt.claims != nil || tt.claimsErr != nil {
				jwtService.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), jwt.AccessToken).Return(tt.claims, tt.claimsErr)
			}

			mux, seen := newMux(t, jwtService)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, *seen)
		})
	}
}
