package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/switch-assistant/internal/api/chat"
	"github.com/futig/switch-assistant/internal/api/docs"
	"github.com/futig/switch-assistant/internal/api/middleware"
	"github.com/futig/switch-assistant/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// RouterOptions carries the server settings the router depends on
type RouterOptions struct {
	CORSAllowedOrigins []string
	HandlerTimeout     time.Duration
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(chatHandler *chatapi.Handler, logger *zap.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", chimiddleware.RequestIDHeader},
	})

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                    // Recover from panics
	r.Use(chimiddleware.RequestID)                    // Add request ID
	r.Use(middleware.Logger(logger))                  // Log requests
	r.Use(corsHandler.Handler)                        // Handle CORS
	r.Use(chimiddleware.Timeout(opts.HandlerTimeout)) // Bound a whole question

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	chatapi.RegisterRoutes(r, chatHandler)

	// Chat page
	r.Handle("/*", web.Handler())

	return r
}
