package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/jwt"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-2026",
		AccessTokenTTL: time.Hour,
	})
}

func echoIdentity(c *gin.Context) {
	id, _ := c.Get("user_id")
	role, _ := c.Get("role")
	uid, _ := id.(int64)
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
}

// ═══════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth(t *testing.T) {
	mgr := newJWT()
	token, _ := mgr.GenerateAccessToken(10, "lecturer")

	r := gin.New()
	r.Use(JWTAuth(mgr))
	r.GET("/me", echoIdentity)
	r.POST("/me", echoIdentity)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
	}{
		{"bearer header", "GET", "/me", "Bearer " + token, http.StatusOK},
		{"missing header", "GET", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "GET", "/me", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "GET", "/me", "Bearer not-a-token", http.StatusUnauthorized},
		{"query token on GET", "GET", "/me?access_token=" + token, "", http.StatusOK},
		{"query token on POST", "POST", "/me?access_token=" + token, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK && !strings.Contains(w.Body.String(), `"user_id":10`) {
				t.Errorf("expected user_id in context, body %s", w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
			c.Next()
		}
	}

	tests := []struct {
		role       string
		wantStatus int
	}{
		{"lecturer", http.StatusOK},
		{"admin", http.StatusOK},
		{"candidate", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			r := gin.New()
			r.Use(withRole(tt.role), RoleAuth(model.RoleLecturer, model.RoleAdmin))
			r.GET("/applicants", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/applicants", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func TestRateLimit_LocalLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 2, time.Hour))
	r.POST("/toggle", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/toggle", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 200,200,429, got %v", codes)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 0, time.Minute))
	r.POST("/toggle", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/toggle", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// RequestID / BodyLimit / Metrics
// ═══════════════════════════════════════════════════════════

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("expected caller id echoed, got header %q body %q", got, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected generated uuid for oversized id, got %q", got)
	}
}

func TestRequestID_RejectsUnsafeCharacters(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	for _, rid := range []string{"abc 123", "abc\r\nlevel=error", "id\"quoted"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set(RequestIDHeader, rid)
		r.ServeHTTP(w, req)
		got := w.Header().Get(RequestIDHeader)
		if got == rid || len(got) != 36 || w.Body.String() != got {
			t.Errorf("id %q: expected a generated uuid, got header %q body %q", rid, got, w.Body.String())
		}
	}
}

func TestLogger_AddsRouteAndCaller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/api/v1/applicants/:id", func(c *gin.Context) {
		c.Set("user_id", int64(7))
		c.Set("role", "lecturer")
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/api/v1/applicants/3", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["route"] != "/api/v1/applicants/:id" || fields["user_id"] != int64(7) ||
		fields["role"] != "lecturer" || fields["request_id"] != "req-1" {
		t.Errorf("unexpected fields %v", fields)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("expected info for api request, got %v", entries[0].Level)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Errorf("expected debug for health check, got %v", entries[1].Level)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}))
	r.GET("/api/v1/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/courses", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("http://localhost:3000")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for allowed preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != RequestIDHeader {
		t.Errorf("expected request id exposed, got %q", got)
	}

	w = preflight("http://evil.example")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unknown origin preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be echoed")
	}
}

func TestSecurityHeaders_NoStoreOnAPI(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/v1/applicants", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/applicants", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("expected no-store on api response, got %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("expected no cache header on health, got %q", got)
	}
}

func TestBodyLimit_DeclaredLengthAndGet(t *testing.T) {
	reached := false
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/comment", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	r.GET("/stream", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, "%d", len(b))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/comment", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge || reached {
		t.Errorf("expected 413 before the handler, got %d (reached=%v)", w.Code, reached)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stream", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusOK || w.Body.String() != "64" {
		t.Errorf("expected GET to bypass the limit, got %d %q", w.Code, w.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/comment", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/comment", strings.NewReader("short")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for small body, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/comment", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for large body, got %d", w.Code)
	}
}

func TestMetrics_CountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/applicants/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequests.WithLabelValues("GET", "/applicants/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/applicants/1", "/applicants/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("expected 2 requests recorded under the route template, got %v", got)
	}
}

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newLocalLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	for i := 0; i < 100; i++ {
		l.allow(fmt.Sprintf("rate_limit:10.0.0.%d:/api/v1/applications", i))
	}
	if n := l.size(); n != 100 {
		t.Fatalf("expected 100 tracked keys, got %d", n)
	}

	now = now.Add(30 * time.Second)
	l.allow("rate_limit:10.0.0.1:/api/v1/applications")

	now = now.Add(45 * time.Second)
	if !l.allow("rate_limit:10.0.0.200:/api/v1/applications") {
		t.Fatal("expected a fresh key to be allowed")
	}
	// 10.0.0.1 was seen 45s ago and survives; the other 99 were idle a full window.
	if n := l.size(); n != 2 {
		t.Errorf("expected idle keys evicted leaving 2, got %d", n)
	}
}

func TestLocalLimiter_EvictedKeyStartsFull(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newLocalLimiter(1, time.Minute)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	key := "rate_limit:10.0.0.1:/api/v1/auth/login"
	if !l.allow(key) || l.allow(key) {
		t.Fatal("expected one request allowed, then limited")
	}
	now = now.Add(2 * time.Minute)
	if !l.allow(key) {
		t.Error("expected the bucket to be available again after an idle window")
	}
}
