// internal/middleware/request_id_middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})
	return router
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	router := newRequestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated request id is not a uuid: %v", err)
	}
	if w.Body.String() != id {
		t.Fatalf("context request_id = %q, header = %q", w.Body.String(), id)
	}
}

func TestRequestIDPassedThrough(t *testing.T) {
	router := newRequestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-1234")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "trace-1234" {
		t.Fatalf("X-Request-ID = %q, want trace-1234", got)
	}
	if w.Body.String() != "trace-1234" {
		t.Fatalf("context request_id = %q, want trace-1234", w.Body.String())
	}
}
