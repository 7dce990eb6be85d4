package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskhive/internal/service"
)

func newLiveSession(t *testing.T) (service.SessionStore, string) {
	t.Helper()
	store := service.NewMemorySessionStore(time.Hour)
	token, err := store.Create(context.Background(), "f3b1f3a0-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return store, token
}

func TestSessionAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(store service.SessionStore, skip []string) (*gin.Engine, *int) {
		var hits int
		r := gin.New()
		r.Use(SessionAuth(store, skip, time.Second))
		handler := func(c *gin.Context) {
			hits++
			c.Status(http.StatusOK)
		}
		r.GET("/teams", handler)
		r.POST("/auth/login", handler)
		return r, &hits
	}

	t.Run("valid session passes through", func(t *testing.T) {
		store, token := newLiveSession(t)
		r, hits := newEngine(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.Header.Set(AuthHeaderKey, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if *hits != 1 {
			t.Fatalf("handler should run once, ran %d times", *hits)
		}
	})

	t.Run("missing token rejected with empty body", func(t *testing.T) {
		store, _ := newLiveSession(t)
		r, hits := newEngine(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Fatalf("401 must carry an empty body, got %q", w.Body.String())
		}
		if *hits != 0 {
			t.Fatal("handler must not run for a rejected request")
		}
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		store, _ := newLiveSession(t)
		r, hits := newEngine(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.Header.Set(AuthHeaderKey, "deadbeef-0000-4000-8000-000000000099")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized || *hits != 0 {
			t.Fatalf("expected 401 without handler run, got %d hits=%d", w.Code, *hits)
		}
	})

	t.Run("skip prefix bypasses authentication", func(t *testing.T) {
		store, _ := newLiveSession(t)
		r, hits := newEngine(store, []string{"/auth"})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK || *hits != 1 {
			t.Fatalf("expected bypass, got %d hits=%d", w.Code, *hits)
		}
	})

	t.Run("request passing auth extends the session", func(t *testing.T) {
		store := service.NewMemorySessionStore(time.Hour)
		token, err := store.Create(context.Background(), "f3b1f3a0-0000-4000-8000-000000000001")
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		r, _ := newEngine(store, nil)

		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.Header.Set(AuthHeaderKey, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if _, err := store.Validate(context.Background(), token); err != nil {
			t.Fatalf("session should stay live after the request: %v", err)
		}
	})
}

func TestSessionAuthHandler(t *testing.T) {
	t.Run("plain handler enforces the same decision", func(t *testing.T) {
		store, token := newLiveSession(t)

		var hits int
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusOK)
		})
		h := SessionAuthHandler(store, nil, time.Second, next)

		req := httptest.NewRequest(http.MethodGet, "/files/users/alice/avatar.jpg", nil)
		req.Header.Set(AuthHeaderKey, token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK || hits != 1 {
			t.Fatalf("expected 200 with handler run, got %d hits=%d", w.Code, hits)
		}

		req = httptest.NewRequest(http.MethodGet, "/files/users/alice/avatar.jpg", nil)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized || hits != 1 {
			t.Fatalf("expected 401 without handler run, got %d hits=%d", w.Code, hits)
		}
		if w.Body.Len() != 0 {
			t.Fatalf("401 must carry an empty body, got %q", w.Body.String())
		}
	})

	t.Run("skip prefix bypasses", func(t *testing.T) {
		store, _ := newLiveSession(t)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		h := SessionAuthHandler(store, []string{"/public"}, time.Second, next)

		req := httptest.NewRequest(http.MethodGet, "/public/logo.png", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected bypass, got %d", w.Code)
		}
	})
}
