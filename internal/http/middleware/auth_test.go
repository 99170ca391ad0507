// README: JWT middleware tests.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func buildAuthRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret))
	group := r.Group("")
	if role != "" {
		group.Use(RequireRole(role))
	}
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
			"name":    c.GetString(CtxUserName),
			"role":    c.GetString(CtxRole),
		})
	})
	return r
}

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthValidToken(t *testing.T) {
	r := buildAuthRouter("")
	token := sign(t, jwt.MapClaims{
		"sub":  "u1",
		"name": "Pam",
		"role": "passenger",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := get(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestAuthRejections(t *testing.T) {
	r := buildAuthRouter("")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + sign(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()}, "other")},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret)},
		{"empty subject", "Bearer " + sign(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testSecret)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(r, tc.header); w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := buildAuthRouter("driver")

	driver := sign(t, jwt.MapClaims{"sub": "d1", "role": "driver", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)
	passenger := sign(t, jwt.MapClaims{"sub": "p1", "role": "passenger", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	if w := get(r, "Bearer "+driver); w.Code != http.StatusOK {
		t.Errorf("driver: expected 200, got %d", w.Code)
	}
	if w := get(r, "Bearer "+passenger); w.Code != http.StatusForbidden {
		t.Errorf("passenger: expected 403, got %d", w.Code)
	}
}
