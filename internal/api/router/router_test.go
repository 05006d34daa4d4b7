package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/api/handler"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{MaxUploadMB: 1},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-key", AccessTokenTTL: time.Hour},
	}
	// 服务均为 nil：只验证路由表与中间件拦截
	h := handler.NewHandler(&service.Service{}, cfg.Server.MaxUploadBytes())
	return Setup(cfg, h, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
}

func TestSetup_Routes(t *testing.T) {
	r := setupTestRouter()

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /api/v1/health",
		"POST /api/v1/auth/login",
		"GET /api/v1/periods",
		"POST /api/v1/schedules/preview",
		"GET /api/v1/semesters",
		"GET /api/v1/semesters/:year/:term",
		"PUT /api/v1/semesters/:year/:term",
		"POST /api/v1/calendar/sync",
		"GET /api/v1/calendar/sync/status",
		"GET /api/v1/courses",
		"GET /api/v1/courses/:id",
		"GET /api/v1/courses/:id/blocks",
		"DELETE /api/v1/courses/:id",
		"POST /api/v1/courses/import",
		"GET /api/v1/export/xlsx",
		"GET /api/v1/export/ics",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("缺少路由 %s", route)
		}
	}
}

func TestSetup_AdminRoutesRequireToken(t *testing.T) {
	r := setupTestRouter()

	for _, rt := range []struct{ method, path string }{
		{"PUT", "/api/v1/semesters/114/1"},
		{"POST", "/api/v1/calendar/sync"},
		{"POST", "/api/v1/courses/import"},
		{"DELETE", "/api/v1/courses/abc"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s 未带 token 期望 401，实际 %d", rt.method, rt.path, w.Code)
		}
	}
}

func TestSetup_Health(t *testing.T) {
	r := setupTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("健康检查失败: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应缺少 X-Request-ID")
	}
}

func TestSetup_BodyLimit(t *testing.T) {
	r := setupTestRouter()

	body := strings.NewReader(strings.Repeat("a", 2<<20))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/auth/login", body))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超过 1MB 期望 413，实际 %d", w.Code)
	}
}
