package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func mustMakeJWT(t *testing.T, secret string, sub interface{}, role string, exp int64, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  exp,
	}
	s, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// ctxに入った値をそのまま返す
func newProtected(cfg config.Config, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		uid, _ := c.Get(middleware.CtxUserIDKey).(int64)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: uid, Role: role})
	}, append([]echo.MiddlewareFunc{middleware.AuthJWT(cfg)}, mws...)...)
	return e
}

const farFuture = 9999999999

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty token", "Bearer  "},
		{"garbage", "Bearer not-a-jwt"},
		{"bad signature", "Bearer " + mustMakeJWT(t, "wrong-secret", 1, "USER", farFuture, jwt.SigningMethodHS256)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "USER", farFuture, jwt.SigningMethodHS512)},
		{"expired", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "USER", 2, jwt.SigningMethodHS256)},
		{"zero sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 0, "USER", farFuture, jwt.SigningMethodHS256)},
		{"bad sub type", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, true, "USER", farFuture, jwt.SigningMethodHS256)},
		{"no role", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "", farFuture, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newProtected(cfg)

			rec := runRequest(t, e, http.MethodGet, "/protected", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
		})
	}
}

func TestAuthJWT_Success_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtected(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, 123, "USER", farFuture, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "USER", body.Role)
}

// subが文字列でも受け付ける
func TestAuthJWT_Success_StringSub(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	e := newProtected(cfg)

	raw := mustMakeJWT(t, cfg.JWTSecret, "42", "ADMIN", farFuture, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(42), body.UserID)
}

func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	t.Run("user is forbidden", func(t *testing.T) {
		e := newProtected(cfg, middleware.AdminRoleGuard())
		raw := mustMakeJWT(t, cfg.JWTSecret, 1, "USER", farFuture, jwt.SigningMethodHS256)

		rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "admin only", decodeMWError(t, rec).Error)
	})

	t.Run("admin passes", func(t *testing.T) {
		e := newProtected(cfg, middleware.AdminRoleGuard())
		raw := mustMakeJWT(t, cfg.JWTSecret, 1, "ADMIN", farFuture, jwt.SigningMethodHS256)

		rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	// AuthJWTなしで置かれたとき
	t.Run("no role in context", func(t *testing.T) {
		e := echo.New()
		e.GET("/admin", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}, middleware.AdminRoleGuard())

		rec := runRequest(t, e, http.MethodGet, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
