// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/validation"
	"marketplace-admin/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	f, err := parseListingFilter(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	pageSize, err := parsePageSize(r.URL.Query(), s.search.DefaultPageSize, s.search.MaxPageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	if s.obs != nil {
		var end func()
		ctx, end = s.obs.StartSpan(ctx, "listings.fetch_page")
		defer end()
	}

	page, err := s.store.FetchPage(ctx, f, pageSize, r.URL.Query().Get("cursor"))
	if s.obs != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.obs.RecordFetch(ctx, s.search.Backend, outcome)
		s.obs.RecordFetchDuration(ctx, time.Since(start), s.search.Backend)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageEnvelope{
		Records:    page.Listings,
		NextCursor: page.NextCursor,
	})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = "status"
	}

	counts, err := s.counts.Get(r.Context(), groupBy)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"groupBy": groupBy,
		"counts":  counts,
	})
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.store.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetListing(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	docs, err := s.store.ListDocuments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"records": docs})
}

func (s *Server) handleStatusTransition(w http.ResponseWriter, r *http.Request) {
	var req statusTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewInvalidFilterError("malformed request body"))
		return
	}

	listing, err := s.engine.Transition(r.Context(), chi.URLParam(r, "id"), models.ListingStatus(req.To), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleValidateListing(w http.ResponseWriter, r *http.Request) {
	var req validateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewInvalidFilterError("malformed request body"))
		return
	}

	result, err := validation.ValidateListingPayload(models.ListingType(req.Type), req.Payload)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAdvisors(w http.ResponseWriter, r *http.Request) {
	f, err := parseAdvisorFilter(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	pageSize, err := parsePageSize(r.URL.Query(), s.search.DefaultPageSize, s.search.MaxPageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := s.store.FetchAdvisors(r.Context(), f, pageSize, r.URL.Query().Get("cursor"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pageEnvelope{
		Records:    page.Advisors,
		NextCursor: page.NextCursor,
	})
}
