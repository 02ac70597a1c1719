package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/session"
	"github.com/thereayou/chat-local/pkg/auth"
)

func setupRouter(jwtManager *auth.JWTManager, revocations session.Revocations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	whoami := func(c *gin.Context) {
		id := c.MustGet(SenderIDKey).(uuid.UUID)
		c.String(http.StatusOK, id.String())
	}
	r.GET("/api/me", AuthMiddleware(jwtManager, revocations), whoami)
	r.GET("/ws", WSAuthMiddleware(jwtManager, revocations), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	revocations := session.NewMemoryRevocations()
	r := setupRouter(jwtManager, revocations)

	token, err := jwtManager.Generate(models.SelfID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{"bearer header", "/api/me", "Bearer " + token, http.StatusOK},
		{"missing header", "/api/me", "", http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer nope", http.StatusUnauthorized},
		{"ws query", "/ws?token=" + token, "", http.StatusOK},
		{"ws header", "/ws", "Bearer " + token, http.StatusOK},
		{"ws missing", "/ws", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.code {
				t.Fatalf("Expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code == http.StatusOK && w.Body.String() != models.SelfID.String() {
				t.Errorf("Expected sender %s, got %s", models.SelfID, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	revocations := session.NewMemoryRevocations()
	r := setupRouter(jwtManager, revocations)

	token, _ := jwtManager.Generate(models.SelfID)
	revocations.Revoke(context.Background(), token, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for revoked token, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/api/rooms", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for foreign origin, got %d", w.Code)
	}
}
