package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	// AuthMiddleware is required; see NewAuthMiddleware / NewDevAuthMiddleware.
	AuthMiddleware func(http.Handler) http.Handler

	// CORSOrigins lists allowed origins; empty disables CORS handling.
	CORSOrigins []string

	// Logger enables request logging when set.
	Logger *slog.Logger
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes and middleware and
// delegates everything else to the Server handlers.
func NewRouter(api *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.Logger != nil {
		r.Use(NewSlogLogger(opts.Logger))
	}
	if len(opts.CORSOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Debug-Subject"},
		})
		r.Use(c.Handler)
	}
	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	// Health endpoint is deliberately unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/itineraries", func(r chi.Router) {
		r.Post("/", api.CreateItinerary)
		r.Get("/", api.ListItineraries)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.GetItinerary)
			r.Put("/", api.ReplaceItinerary)
			r.Delete("/", api.DeleteItinerary)
			r.Get("/quote", api.QuoteItinerary)
		})
	})

	return r
}
