package http

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskhive/internal/repository"
	"taskhive/internal/service"
	"taskhive/internal/storage"
)

// NewFileServer arma la superficie plana net/http que sirve archivos de
// usuario desde el object store, detrás de la misma decisión de
// autenticación que el transporte principal. El segmento userName se
// resuelve contra la tabla de usuarios antes de tocar el store.
func NewFileServer(
	logger *zap.Logger,
	files storage.FileStore,
	users repository.UserRepository,
	sessions service.SessionStore,
	skipPrefixes []string,
	timeout time.Duration,
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/users/{userName}/{fileName}", func(w http.ResponseWriter, r *http.Request) {
		userName := r.PathValue("userName")
		if _, err := users.GetByName(r.Context(), userName); err != nil {
			http.NotFound(w, r)
			return
		}

		key := fmt.Sprintf("%s/%s", userName, r.PathValue("fileName"))
		data, err := files.Download(r.Context(), key)
		if err != nil {
			logger.Warn("file download failed", zap.String("key", key), zap.Error(err))
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", http.DetectContentType(data))
		_, _ = w.Write(data)
	})

	return SessionAuthHandler(sessions, skipPrefixes, timeout, mux)
}
