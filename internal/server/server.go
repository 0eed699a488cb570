// internal/server/server.go

// Package server exposes the admin console API: listing search with
// filters and cursor paging, tab-badge counts, the status workflow and
// advisor lookups.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-admin/internal/common/config"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/observability"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
	"marketplace-admin/internal/query"
)

// ListingStore is the read side of the API.
type ListingStore interface {
	FetchPage(ctx context.Context, f filter.ListingFilter, pageSize int, cursor string) (*query.Page, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	ListDocuments(ctx context.Context, listingID string) ([]models.Document, error)
	FetchAdvisors(ctx context.Context, f filter.AdvisorFilter, pageSize int, cursor string) (*query.AdvisorPage, error)
}

// StatusEngine applies listing status transitions.
type StatusEngine interface {
	Transition(ctx context.Context, id string, to models.ListingStatus, reason string) (*models.Listing, error)
}

// CountsProvider serves the grouped badge counts.
type CountsProvider interface {
	Get(ctx context.Context, groupBy string) (map[string]int, error)
}

// Server is the admin API server.
type Server struct {
	router    chi.Router
	logger    logger.Logger
	search    config.SearchConfig
	store     ListingStore
	engine    StatusEngine
	counts    CountsProvider
	obs       *observability.Observability
	startTime time.Time
}

// New creates a Server with all routes registered. obs may be nil.
func New(cfg config.SearchConfig, store ListingStore, engine StatusEngine, counts CountsProvider, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		search:    cfg,
		store:     store,
		engine:    engine,
		counts:    counts,
		obs:       obs,
		startTime: time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", s.handleListListings)
			r.Get("/counts", s.handleCounts)
			r.Post("/validate", s.handleValidateListing)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetListing)
				r.Get("/documents", s.handleListDocuments)
				r.Post("/status", s.handleStatusTransition)
			})
		})
		r.Get("/advisors", s.handleListAdvisors)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
