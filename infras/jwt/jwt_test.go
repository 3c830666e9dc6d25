package jwt_test

import (
	"context"
	"salonbook/config"
	"salonbook/infras/jwt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "salonbook"
	cfg.JWT.AccessSecret = "test-secret"
	cfg.JWT.AccessExpireMin = 15

	return cfg
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := jwt.New(newConfig())

	token, err := svc.GenerateAccessToken("user-1", "user@example.com", "customer")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token, jwt.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)
	assert.NotEmpty(t, claims.TokenID)
}

func TestService_ValidateToken(t *testing.T) {
	cfg := newConfig()
	svc := jwt.New(cfg)

	otherCfg := newConfig()
	otherCfg.JWT.AccessSecret = "another-secret"
	otherToken, err := jwt.New(otherCfg).GenerateAccessToken("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	expiredCfg := newConfig()
	expiredCfg.JWT.AccessExpireMin = -5
	expiredToken, err := jwt.New(expiredCfg).GenerateAccessToken("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	foreignCfg := newConfig()
	foreignCfg.JWT.Issuer = "someone-else"
	foreignToken, err := jwt.New(foreignCfg).GenerateAccessToken("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage token", token: "not-a-token", wantErr: jwt.ErrInvalidToken},
		{name: "wrong secret", token: otherToken, wantErr: jwt.ErrInvalidToken},
		{name: "expired token", token: expiredToken, wantErr: jwt.ErrExpiredToken},
		{name: "foreign issuer", token: foreignToken, wantErr: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token, jwt.AccessToken)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def", want: "abc.def"},
		{name: "missing header", header: "", wantErr: jwt.ErrMissingHeader},
		{name: "wrong scheme", header: "Basic abc", wantErr: jwt.ErrInvalidHeader},
		{name: "empty bearer", header: "Bearer ", wantErr: jwt.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
