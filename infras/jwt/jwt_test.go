package jwt_test

import (
	"itinera/config"
	"itinera/infras/jwt"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, expireMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "itinera"
	cfg.JWT.AccessSecret = secret
	cfg.JWT.AccessExpireMin = expireMin

	return jwt.New(cfg)
}

func TestIssueAndVerify(t *testing.T) {
	service := newService("secret", 15)

	token, expiresAt, err := service.Issue("user-1", "traveller@example.com", "user")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "itinera", claims.Issuer)
}

func TestVerifyRejects(t *testing.T) {
	service := newService("secret", 15)

	other, _, err := newService("another-secret", 15).Issue("user-1", "", "user")
	require.NoError(t, err)

	expired, _, err := newService("secret", -5).Issue("user-1", "", "user")
	require.NoError(t, err)

	anonymous, _, err := service.Issue("", "", "user")
	require.NoError(t, err)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, jwt.Claims{UserID: "user-1"}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "garbage", token: "not-a-token", err: jwt.ErrInvalidToken},
		{name: "wrong secret", token: other, err: jwt.ErrInvalidToken},
		{name: "expired", token: expired, err: jwt.ErrExpiredToken},
		{name: "missing user", token: anonymous, err: jwt.ErrInvalidClaim},
		{name: "unsigned", token: none, err: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, jwt.ErrMissingHeader)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.ErrorIs(t, err, jwt.ErrMissingBearer)
}
