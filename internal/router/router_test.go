package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/seox/internal/config"
	"github.com/seox/internal/db"
	"github.com/seox/internal/workflow"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var routerDBSeq int

func setupRouterDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	routerDBSeq++
	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", routerDBSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	return SetupRouter(setupRouterDB(t), config.AppConfig{
		SessionSecret: "router-test-secret",
		SiteBaseURL:   "http://localhost:8080",
	})
}

func TestHealthzIsPublic(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestBusinessRoutesRequireSession(t *testing.T) {
	r := setupRouterTest(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/blog-posts"},
		{http.MethodGet, "/seo-accounts"},
		{http.MethodGet, "/dashboard/stats"},
		{http.MethodGet, "/users"},
		{http.MethodPatch, "/blog-posts/1/submit"},
	}

	for _, route := range protected {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status 401, got %d", route.method, route.path, w.Code)
		}
	}
}

// 对外地址为 https 时，登录下发的会话 cookie 必须带 Secure 与 HttpOnly。
func TestSessionCookieSecureOnHTTPSBaseURL(t *testing.T) {
	gdb := setupRouterDB(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("router-pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: "router-admin", Password: string(hashed), Role: workflow.RoleAdmin}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	r := SetupRouter(gdb, config.AppConfig{
		SessionSecret: "router-test-secret",
		SiteBaseURL:   "https://app.seo-x.dev",
	})

	payload, _ := json.Marshal(map[string]string{
		"username": "router-admin",
		"password": "router-pass",
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	setCookie := strings.Join(w.Header().Values("Set-Cookie"), "; ")
	if setCookie == "" {
		t.Fatal("expected a session cookie on login")
	}
	if !strings.Contains(setCookie, "Secure") {
		t.Fatalf("expected Secure cookie for https base url, got %q", setCookie)
	}
	if !strings.Contains(setCookie, "HttpOnly") {
		t.Fatalf("expected HttpOnly cookie, got %q", setCookie)
	}
}

func TestRequestIDHeaderPresent(t *testing.T) {
	r := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header on responses")
	}
}
