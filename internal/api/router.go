package api

import (
	"database/sql"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/erazemk/zaloga/internal/cache"
	"github.com/erazemk/zaloga/internal/model"
)

// Options configures the optional parts of the API.
type Options struct {
	// Cache serves reference lists; nil reads them from the database every time.
	Cache cache.Cache
	// JWTSecret enables bearer-token checks on mutating routes when non-empty.
	JWTSecret string
	// RateLimit caps requests per second across all clients; 0 disables it.
	RateLimit rate.Limit
	Burst     int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	referencesHandler := &ReferencesHandler{DB: db, Cache: opts.Cache}
	itemsHandler := &ItemsHandler{DB: db}
	healthHandler := &HealthHandler{DB: db}

	write := func(h http.HandlerFunc) http.Handler { return h }
	if opts.JWTSecret != "" {
		authMW := AuthMiddleware(opts.JWTSecret)
		write = func(h http.HandlerFunc) http.Handler { return authMW(h) }
	}

	mux.HandleFunc("GET /api/health", healthHandler.Check)

	// Reference data (read-only).
	mux.HandleFunc("GET /api/categories", referencesHandler.List(model.KindCategory))
	mux.HandleFunc("GET /api/suppliers", referencesHandler.List(model.KindSupplier))
	mux.HandleFunc("GET /api/locations", referencesHandler.List(model.KindLocation))

	// Items: reads are public, writes need a token when auth is enabled.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("POST /api/items", write(itemsHandler.Create))
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("PATCH /api/items/{id}/quantity", write(itemsHandler.UpdateQuantity))
	mux.Handle("DELETE /api/items/{id}", write(itemsHandler.Delete))

	// Anything else, including known paths with another method.
	mux.HandleFunc("/", NotFound)

	var handler http.Handler = mux
	if opts.RateLimit > 0 {
		handler = RateLimitMiddleware(opts.RateLimit, opts.Burst)(handler)
	}
	return RecoverMiddleware(handler)
}

// NotFound writes the JSON 404 for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusNotFound, "Not found")
}
