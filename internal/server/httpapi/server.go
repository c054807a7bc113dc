// Package httpapi exposes the archive and pins resources as JSON over HTTP.
//
// Responses carry either the refreshed resource list ({"entries": [...]},
// {"pins": [...]}) or {"error": "..."} with a 400/500 status.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/storyatlas/storyatlas/internal/logging"
	"github.com/storyatlas/storyatlas/internal/server/models"
	"github.com/storyatlas/storyatlas/internal/server/services"
)

// ArchiveService is the archive workflow consumed by the handlers.
type ArchiveService interface {
	List(ctx context.Context) ([]models.ArchiveEntry, error)
	Create(ctx context.Context, in services.CreateEntryInput) ([]models.ArchiveEntry, error)
	Update(ctx context.Context, in services.UpdateEntryInput) ([]models.ArchiveEntry, error)
	Delete(ctx context.Context, id string) ([]models.ArchiveEntry, error)
}

// PinService is the pin workflow consumed by the handlers.
type PinService interface {
	List(ctx context.Context) ([]models.StoryPin, error)
	Create(ctx context.Context, lat, lng float64, note string) ([]models.StoryPin, error)
}

// Server holds the handler dependencies and builds the route table.
type Server struct {
	archive ArchiveService
	pins    PinService
	logger  logging.Logger
}

func NewServer(archive ArchiveService, pins PinService, logger logging.Logger) *Server {
	return &Server{archive: archive, pins: pins, logger: logger}
}

// Routes returns the ServeMux with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/archive", s.withLogging(s.handleListEntries))
	mux.HandleFunc("POST /api/archive", s.withLogging(s.handleCreateEntry))
	mux.HandleFunc("PATCH /api/archive", s.withLogging(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/archive", s.withLogging(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/pins", s.withLogging(s.handleListPins))
	mux.HandleFunc("POST /api/pins", s.withLogging(s.handleCreatePin))

	return mux
}

// withLogging wraps a handler with request logging.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next(w, r)

		s.logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error(context.Background(), "failed to encode JSON response", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}

func parseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
