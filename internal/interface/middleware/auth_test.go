package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

func newJWT(t *testing.T) *helpers.JWTManager {
	t.Helper()
	return helpers.NewJWTManager("test-secret", time.Hour)
}

func bearerFor(t *testing.T, jwt *helpers.JWTManager, userID string) string {
	t.Helper()
	token, _, err := jwt.Generate(userID, userID+"@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func protectedRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.RequireAuth(jwt), func(c *gin.Context) {
		userID, ok := middleware.IdentityFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": userID, "isAuth": ok})
	})
	return r
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	jwt := newJWT(t)
	r := protectedRouter(jwt)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearerFor(t, jwt, "user-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejects(t *testing.T) {
	jwt := newJWT(t)
	r := protectedRouter(jwt)

	other := helpers.NewJWTManager("other-secret", time.Hour)

	cases := map[string]string{
		"no header":       "",
		"not bearer":      "Basic abc",
		"empty token":     "Bearer ",
		"garbage token":   "Bearer not.a.jwt",
		"wrong signature": bearerFor(t, other, "user-1"),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w.Code)
		}
	}
}

func TestOptionalAuthPassesThrough(t *testing.T) {
	jwt := newJWT(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", middleware.OptionalAuth(jwt), func(c *gin.Context) {
		userID, ok := middleware.IdentityFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": userID, "isAuth": ok})
	})

	// anonymous requests still reach the handler
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", w.Code)
	}

	// authenticated requests carry the identity
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", bearerFor(t, jwt, "user-7"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"userId":"user-7"`) || !strings.Contains(body, `"isAuth":true`) {
		t.Errorf("body = %s", body)
	}
}
