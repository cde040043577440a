package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/gridsheet/internal/web/handlers"
	"github.com/kozaktomas/gridsheet/internal/web/static"
)

func (s *Server) setupRoutes() {
	// Create handlers
	settingsHandler := handlers.NewSettingsHandler(s.store)
	imagesHandler := handlers.NewImagesHandler(s.images)
	geometryHandler := handlers.NewGeometryHandler(s.store, s.images)
	previewHandler := handlers.NewPreviewHandler(s.store, s.images, s.config.Thumbs.CacheSize)
	renderHandler := handlers.NewRenderHandler(s.store, s.images, s.jobManager)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Settings
		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)
		r.Post("/settings/reset", settingsHandler.Reset)
		r.Get("/settings/page-sizes", settingsHandler.PageSizes)

		// Image list
		r.Get("/images", imagesHandler.List)
		r.Post("/images", imagesHandler.Add)
		r.Delete("/images", imagesHandler.Clear)
		r.Delete("/images/{index}", imagesHandler.Remove)
		r.Put("/images/order", imagesHandler.Reorder)

		// Derived geometry
		r.Get("/geometry", geometryHandler.Get)

		// Preview
		r.Get("/preview", previewHandler.Get)

		// Render (long-running operations)
		r.Post("/render", renderHandler.Start)
		r.Get("/render/{jobId}", renderHandler.Status)
		r.Get("/render/{jobId}/events", renderHandler.Events)
		r.Get("/render/{jobId}/result", renderHandler.Result)
		r.Delete("/render/{jobId}", renderHandler.Cancel)
	})

	// Serve static files for frontend (SPA)
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the single-page application
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	if static.HasDist() {
		fs := static.GetFileSystem()
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := fs.Open(path)
		if err == nil {
			defer f.Close()

			stat, err := f.Stat()
			if err == nil && !stat.IsDir() {
				// Set content type based on extension
				contentType := "application/octet-stream"
				switch {
				case strings.HasSuffix(path, ".html"):
					contentType = "text/html; charset=utf-8"
				case strings.HasSuffix(path, ".css"):
					contentType = "text/css; charset=utf-8"
				case strings.HasSuffix(path, ".js"):
					contentType = "application/javascript; charset=utf-8"
				case strings.HasSuffix(path, ".json"):
					contentType = "application/json"
				case strings.HasSuffix(path, ".svg"):
					contentType = "image/svg+xml"
				case strings.HasSuffix(path, ".png"):
					contentType = "image/png"
				case strings.HasSuffix(path, ".ico"):
					contentType = "image/x-icon"
				}

				w.Header().Set("Content-Type", contentType)
				w.WriteHeader(http.StatusOK)
				io.Copy(w, f)
				return
			}
		}

		// For SPA routing, serve index.html for unknown paths
		indexFile, err := fs.Open("/index.html")
		if err == nil {
			defer indexFile.Close()
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			io.Copy(w, indexFile)
			return
		}
	}

	// Fallback: return placeholder page if no frontend is embedded
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Gridsheet</title></head>
<body>
    <h1>Gridsheet</h1>
    <p>Frontend is not embedded. API is available at <a href="/api/v1/health">/api/v1/health</a></p>
</body>
</html>`))
}
