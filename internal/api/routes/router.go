package routes

import (
	"net/http"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/handlers"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/middleware"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
)

// Router holds the HTTP handlers and shared middleware.
type Router struct {
	benchmarkHandler *handlers.BenchmarkHandler
	entityHandler    *handlers.EntityHandler
	filterHandler    *handlers.FilterHandler
	cacheMiddleware  *middleware.CacheMiddleware
	metrics          *observability.Metrics
}

// NewRouter creates a new router.
func NewRouter(
	benchmarkHandler *handlers.BenchmarkHandler,
	entityHandler *handlers.EntityHandler,
	filterHandler *handlers.FilterHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		benchmarkHandler: benchmarkHandler,
		entityHandler:    entityHandler,
		filterHandler:    filterHandler,
		cacheMiddleware:  cacheMiddleware,
		metrics:          metrics,
	}
}

// SetupRoutes configures all API routes and the middleware chain.
func (rt *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /api/benchmark", rt.benchmarkHandler.RunBenchmark)
	mux.HandleFunc("POST /api/benchmark/service-codes", rt.benchmarkHandler.ServiceCodeBreakdown)
	mux.HandleFunc("GET /api/entities/search", rt.entityHandler.Search)
	mux.HandleFunc("GET /api/filters", rt.filterHandler.GetFilterOptions)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	if rt.cacheMiddleware != nil {
		handler = rt.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ObservabilityMiddleware(rt.metrics)(handler)
	// CORS must be outermost so cached responses also get CORS headers
	handler = middleware.CORSMiddleware(handler)

	return handler
}
