package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskhive/internal/service"
)

// authorizeRequest es la decisión de autenticación compartida por el
// transporte gin y el plano http. Extender la sesión en cada request
// implementa la expiración deslizante.
func authorizeRequest(ctx context.Context, store service.SessionStore, path, token string, skipPrefixes []string) error {
	for _, prefix := range skipPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return nil
		}
	}
	if strings.TrimSpace(token) == "" {
		return service.ErrNotFound
	}
	return store.Extend(ctx, token)
}

// SessionAuth gin-middleware: autentica contra el SessionStore antes de
// dejar pasar el request y aplica el timeout global por request. Un fallo
// responde 401 con cuerpo vacío, sin distinguir sesión ausente de store
// caído.
func SessionAuth(store service.SessionStore, skipPrefixes []string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		if err := authorizeRequest(ctx, store, c.Request.URL.Path, c.GetHeader(AuthHeaderKey), skipPrefixes); err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// SessionAuthHandler es la variante para handlers net/http planos (la
// superficie de archivos), con la misma decisión y el mismo rechazo.
func SessionAuthHandler(store service.SessionStore, skipPrefixes []string, timeout time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := authorizeRequest(ctx, store, r.URL.Path, r.Header.Get(AuthHeaderKey), skipPrefixes); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
