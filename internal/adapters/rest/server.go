package rest

import (
	"catalog-import-service/internal/core/port"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты API; вынесен отдельно, чтобы тесты гоняли его через httptest
func NewRouter(feedHandlers *FeedHandlers, catalogHandlers *CatalogHandlers, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sources/{sourceID}/import", feedHandlers.ImportRows)
		r.Post("/sources/{sourceID}/import/file", feedHandlers.ImportFile)
		r.Post("/preview", feedHandlers.Preview)

		r.Get("/catalog/summary", catalogHandlers.GetSummary)
		r.Delete("/catalog", catalogHandlers.Purge)
	})
	return r
}

func NewServer(port string, feedHandlers *FeedHandlers, catalogHandlers *CatalogHandlers, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(feedHandlers, catalogHandlers, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
