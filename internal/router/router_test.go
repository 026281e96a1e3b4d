package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cumplido-next/internal/config"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/provider"

	"github.com/gin-gonic/gin"
)

func setupTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{SecretKey: "router-test-secret"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	container := &provider.Container{Config: cfg, Metrics: metrics.New()}
	return SetupRouter(cfg, container)
}

func TestSetupRouterOperationalEndpoints(t *testing.T) {
	r := setupTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("healthz unexpected: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status want 200 got %d", w.Code)
	}
}

func TestSetupRouterRequiresToken(t *testing.T) {
	r := setupTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/operator/fulfillments/assign", strings.NewReader(`{}`)))
	if got := decodeStatusCode(t, w); got != 401 {
		t.Fatalf("status_code want 401 got %d", got)
	}
}

func TestBuildPermissionCatalog(t *testing.T) {
	r := setupTestEngine(t)

	items := buildPermissionCatalog(r)
	found := map[string]string{}
	for _, item := range items {
		found[item.Permission] = item.Module
	}
	if module, ok := found["POST:/operator/fulfillments/assign"]; !ok || module != "operator.fulfillments" {
		t.Fatalf("assign permission missing or misgrouped: %q", module)
	}
	if _, ok := found["POST:/admin/fulfillments/reconcile"]; !ok {
		t.Fatalf("reconcile permission missing")
	}
	for permission := range found {
		if strings.Contains(permission, "/healthz") || strings.Contains(permission, "/metrics") {
			t.Fatalf("operational route should not be in catalog: %s", permission)
		}
	}
}
