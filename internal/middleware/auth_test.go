package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	var uid string
	e.GET("/", func(c echo.Context) error {
		uid = IdentityUID(c)
		return c.NoContent(http.StatusNoContent)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, uid
}

func TestJWTAuthAcceptsSessionToken(t *testing.T) {
	token, expiresAt, err := NewSessionToken(testSecret, "uid-1", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	rec, uid := serve(t, JWTAuthMiddleware(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "uid-1", uid)
}

func TestJWTAuthRejects(t *testing.T) {
	wrongKey, _, err := NewSessionToken("other-secret", "uid-1", time.Hour)
	require.NoError(t, err)
	expired, _, err := NewSessionToken(testSecret, "uid-1", -time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"garbage":   "Bearer not-a-jwt",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expired,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, uid := serve(t, JWTAuthMiddleware(testSecret), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, uid)
		})
	}
}

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: "firebase-uid"}, nil
}

func TestFirebaseAuth(t *testing.T) {
	rec, uid := serve(t, FirebaseAuthMiddleware(stubVerifier{}), "Bearer good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "firebase-uid", uid)

	rec, uid = serve(t, FirebaseAuthMiddleware(stubVerifier{}), "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, uid)
}
