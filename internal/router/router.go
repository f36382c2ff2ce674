package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-city-info-api/docs"
	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/api/city"
	"github.com/FACorreiaa/go-city-info-api/internal/api/poi"
)

// Config contains dependencies needed for the router setup
type Config struct {
	CityHandler *city.HandlerImpl
	POIHandler  *poi.HandlerImpl
	// AuthenticateMiddleware guards the mutating point of interest routes. Nil leaves them public.
	AuthenticateMiddleware func(http.Handler) http.Handler
	RateLimitMiddleware    func(http.Handler) http.Handler
	AllowedOrigins         []string
	StoreBackend           string
	HealthCheck            func(ctx context.Context) error
	Logger                 *slog.Logger
}

// SetupRouter initializes and configures the application routes.
// Server-wide middleware (logger, requestID, recoverer) is applied in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimitMiddleware != nil {
		r.Use(cfg.RateLimitMiddleware)
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/healthz", healthHandler(cfg))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/cities", func(r chi.Router) {
		r.Get("/", cfg.CityHandler.GetCities)
		r.Get("/{cityId}", cfg.CityHandler.GetCity)

		r.Route("/{cityId}/pointsofinterest", func(r chi.Router) {
			r.Get("/", cfg.POIHandler.GetPointsOfInterest)
			r.Get("/{id}", cfg.POIHandler.GetPointOfInterest)

			r.Group(func(r chi.Router) {
				if cfg.AuthenticateMiddleware != nil {
					r.Use(cfg.AuthenticateMiddleware)
				}
				r.Post("/", cfg.POIHandler.CreatePointOfInterest)
				r.Put("/{id}", cfg.POIHandler.UpdatePointOfInterest)
				r.Patch("/{id}", cfg.POIHandler.PatchPointOfInterest)
				r.Delete("/{id}", cfg.POIHandler.DeletePointOfInterest)
			})
		})
	})

	return r
}

func healthHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := api.HealthResponse{Status: "ok", Store: cfg.StoreBackend}
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(r.Context()); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.WarnContext(r.Context(), "Health check failed", slog.Any("error", err))
				}
				resp.Status = "unavailable"
				api.WriteResponse(w, r, http.StatusServiceUnavailable, resp)
				return
			}
		}
		api.WriteResponse(w, r, http.StatusOK, resp)
	}
}
