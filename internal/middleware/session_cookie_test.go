package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_session_secret"

// =====================
// helper
// =====================

func newSessionEcho() *echo.Echo {
	e := echo.New()
	e.Use(middleware.SessionCookie(middleware.SessionCookieConfig{
		Secret: []byte(testSecret),
		TTL:    time.Hour,
		Secure: true,
	}))
	e.GET("/sid", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.SessionID(c))
	})
	return e
}

func mustSignSession(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func doWithCookie(e *echo.Echo, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: value})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// =====================
// tests
// =====================

func TestSessionCookie_IssuesNewSession(t *testing.T) {
	e := newSessionEcho()

	rec := doWithCookie(e, "")
	require.Equal(t, http.StatusOK, rec.Code)

	sid := rec.Body.String()
	_, err := uuid.Parse(sid)
	assert.NoError(t, err)

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 3600, ck.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	// 発行したcookieを戻すと同じセッション
	rec2 := doWithCookie(e, ck.Value)
	assert.Equal(t, sid, rec2.Body.String())
	assert.Nil(t, sessionCookie(rec2))
}

func TestSessionCookie_KeepsValidSession(t *testing.T) {
	e := newSessionEcho()
	sid := uuid.NewString()

	token := mustSignSession(t, testSecret, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256)

	rec := doWithCookie(e, token)
	assert.Equal(t, sid, rec.Body.String())
}

func TestSessionCookie_RenewsNearExpiry(t *testing.T) {
	e := newSessionEcho()
	sid := uuid.NewString()

	// TTL 1h に対して残り10分
	token := mustSignSession(t, testSecret, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(10 * time.Minute).Unix(),
	}, jwt.SigningMethodHS256)

	rec := doWithCookie(e, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sid, rec.Body.String())

	ck := sessionCookie(rec)
	require.NotNil(t, ck, "同じsidで再発行する")
	assert.NotEqual(t, token, ck.Value)
	assert.Equal(t, 3600, ck.MaxAge)

	// 再発行されたcookieでも同じセッション、期限は延びている
	rec2 := doWithCookie(e, ck.Value)
	assert.Equal(t, sid, rec2.Body.String())
	assert.Nil(t, sessionCookie(rec2))

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(ck.Value, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, 5*time.Second)
}

func TestSessionCookie_FreshSessionNotRenewed(t *testing.T) {
	e := newSessionEcho()
	sid := uuid.NewString()

	token := mustSignSession(t, testSecret, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(50 * time.Minute).Unix(),
	}, jwt.SigningMethodHS256)

	rec := doWithCookie(e, token)
	assert.Equal(t, sid, rec.Body.String())
	assert.Nil(t, sessionCookie(rec))
}

func TestSessionCookie_RejectsTampered(t *testing.T) {
	e := newSessionEcho()
	sid := uuid.NewString()

	cases := map[string]string{
		"wrong secret": mustSignSession(t, "other_secret", jwt.MapClaims{"sid": sid}, jwt.SigningMethodHS256),
		"wrong alg":    mustSignSession(t, testSecret, jwt.MapClaims{"sid": sid}, jwt.SigningMethodHS512),
		"expired": mustSignSession(t, testSecret, jwt.MapClaims{
			"sid": sid,
			"exp": time.Now().Add(-time.Minute).Unix(),
		}, jwt.SigningMethodHS256),
		"not uuid": mustSignSession(t, testSecret, jwt.MapClaims{"sid": "admin"}, jwt.SigningMethodHS256),
		"no sid":   mustSignSession(t, testSecret, jwt.MapClaims{"foo": "bar"}, jwt.SigningMethodHS256),
		"garbage":  "not-a-jwt",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doWithCookie(e, token)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotEqual(t, sid, rec.Body.String())
			assert.NotNil(t, sessionCookie(rec), "新しいcookieを発行する")
		})
	}
}

func TestSessionCookie_DistinctVisitors(t *testing.T) {
	e := newSessionEcho()

	a := doWithCookie(e, "").Body.String()
	b := doWithCookie(e, "").Body.String()
	assert.NotEqual(t, a, b)
}
