package middleware

import (
	"net/http"
	"net/http/httptest"
	"salonbook/config"
	"salonbook/infras/jwt"
	otelMocks "salonbook/infras/otel/mocks"
	"salonbook/permissions"
	"salonbook/shared/constant"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T) (http.Handler, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "test-secret"
	cfg.JWT.AccessExpireMin = 5

	tokens := jwt.New(cfg)
	perms := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/bookings/slots", Method: http.MethodGet, Skip: true},
		{Path: "/v1/bookings/{id}/check-in", Method: http.MethodPatch, Permissions: []string{constant.RoleProvider, constant.RoleAdmin}},
	}}

	mw := NewAuthRoleMiddleware(tokens, otelMocks.NewOtel(), perms, cfg)

	whoami := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = w.Write([]byte(userID))
	})

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.APIKey, mw.Auth, mw.RBAC)
		r.Route("/v1", func(r chi.Router) {
			r.Get("/bookings", whoami)
			r.Get("/bookings/slots", whoami)
			r.Patch("/bookings/{id}/check-in", whoami)
		})
	})

	return router, tokens
}

func TestAuthRole(t *testing.T) {
	router, tokens := newProtectedRouter(t)

	customerToken, err := tokens.GenerateAccessToken("customer-1", "c@example.com", constant.RoleCustomer)
	require.NoError(t, err)

	providerToken, err := tokens.GenerateAccessToken("provider-user-1", "p@example.com", constant.RoleProvider)
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		target   string
		headers  map[string]string
		wantCode int
		wantBody string
	}{
		{name: "public endpoint without token", method: http.MethodGet, target: "/v1/bookings/slots", wantCode: http.StatusOK},
		{name: "missing token", method: http.MethodGet, target: "/v1/bookings", wantCode: http.StatusUnauthorized},
		{
			name:     "malformed header",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token " + customerToken},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "garbage token",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer not-a-jwt"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "customer lists bookings",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + customerToken},
			wantCode: http.StatusOK,
			wantBody: "customer-1",
		},
		{
			name:     "customer cannot check in",
			method:   http.MethodPatch,
			target:   "/v1/bookings/booking-1/check-in",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + customerToken},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "provider checks in",
			method:   http.MethodPatch,
			target:   "/v1/bookings/booking-1/check-in",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + providerToken},
			wantCode: http.StatusOK,
			wantBody: "provider-user-1",
		},
		{
			name:     "internal api key bypasses auth",
			method:   http.MethodPatch,
			target:   "/v1/bookings/booking-1/check-in",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}
