// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/internal/common/config"
	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
	"marketplace-admin/internal/query"
)

// ==========================
// Test Helper Functions
// ==========================

type stubStore struct {
	lastFilter   filter.ListingFilter
	lastPageSize int
	lastCursor   string
	page         *query.Page
	pageErr      error
	listing      *models.Listing
	listingErr   error
	documents    []models.Document
	advisorPage  *query.AdvisorPage
}

func (s *stubStore) FetchPage(_ context.Context, f filter.ListingFilter, pageSize int, cursor string) (*query.Page, error) {
	s.lastFilter = f
	s.lastPageSize = pageSize
	s.lastCursor = cursor
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.page, nil
}

func (s *stubStore) GetListing(_ context.Context, id string) (*models.Listing, error) {
	if s.listingErr != nil {
		return nil, s.listingErr
	}
	return s.listing, nil
}

func (s *stubStore) ListDocuments(_ context.Context, _ string) ([]models.Document, error) {
	return s.documents, nil
}

func (s *stubStore) FetchAdvisors(_ context.Context, f filter.AdvisorFilter, pageSize int, cursor string) (*query.AdvisorPage, error) {
	return s.advisorPage, nil
}

type stubEngine struct {
	lastTo  models.ListingStatus
	listing *models.Listing
	err     error
}

func (e *stubEngine) Transition(_ context.Context, _ string, to models.ListingStatus, _ string) (*models.Listing, error) {
	e.lastTo = to
	if e.err != nil {
		return nil, e.err
	}
	return e.listing, nil
}

type stubCounts struct {
	counts map[string]int
	err    error
}

func (c *stubCounts) Get(_ context.Context, _ string) (map[string]int, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.counts, nil
}

func newTestServer(store *stubStore, engine *stubEngine, counts *stubCounts) *Server {
	cfg := config.SearchConfig{DefaultPageSize: 20, MaxPageSize: 100}
	return New(cfg, store, engine, counts, nil, logger.NewNoOpLogger())
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

// ==========================
// Listing Endpoint Tests
// ==========================

func TestHandleListListings(t *testing.T) {
	store := &stubStore{page: &query.Page{
		Listings:   []models.Listing{{ID: "l1"}, {ID: "l2"}},
		NextCursor: "tok",
	}}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet,
		"/api/listings?status=pending&status=draft&type=business&featured=true&price_min=1000&page_size=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Records    []models.Listing `json:"records"`
		NextCursor string           `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Records, 2)
	assert.Equal(t, "tok", body.NextCursor)

	assert.ElementsMatch(t, []string{"pending", "draft"}, store.lastFilter.Statuses)
	assert.Equal(t, []string{"business"}, store.lastFilter.Types)
	assert.Equal(t, filter.Include, store.lastFilter.IsFeatured)
	require.NotNil(t, store.lastFilter.Price.Min)
	assert.Equal(t, 1000.0, *store.lastFilter.Price.Min)
	assert.Equal(t, 2, store.lastPageSize)
}

func TestHandleListListings_CursorPassthrough(t *testing.T) {
	store := &stubStore{page: &query.Page{}}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/listings?cursor=abc123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", store.lastCursor)
}

func TestHandleListListings_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown status", "status=live"},
		{"unknown type", "type=bakery"},
		{"unknown plan", "plan=gold"},
		{"bad featured flag", "featured=maybe"},
		{"bad price", "price_min=cheap"},
		{"inverted price range", "price_min=100&price_max=50"},
		{"bad date", "created_from=yesterday"},
		{"inverted date range", "created_from=2025-06-01&created_to=2025-01-01"},
		{"bad page size", "page_size=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubStore{page: &query.Page{}}, &stubEngine{}, &stubCounts{})
			rec := doRequest(t, s, http.MethodGet, "/api/listings?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(errors.ErrCodeInvalidFilterFormat), errorCode(t, rec))
		})
	}
}

func TestHandleListListings_PageSizeClampedToMax(t *testing.T) {
	store := &stubStore{page: &query.Page{}}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/listings?page_size=5000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, store.lastPageSize)
}

func TestHandleListListings_BadCursorFromStore(t *testing.T) {
	store := &stubStore{pageErr: errors.NewBadCursorError("not base64")}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/listings?cursor=%25%25", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeBadCursor), errorCode(t, rec))
}

func TestHandleGetListing_NotFound(t *testing.T) {
	store := &stubStore{listingErr: errors.NewListingNotFoundError("ghost")}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/listings/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Counts / Workflow / Validation Tests
// ==========================

func TestHandleCounts_DefaultsToStatusGroup(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{
		counts: map[string]int{"pending": 4, "published": 90},
	})

	rec := doRequest(t, s, http.MethodGet, "/api/listings/counts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		GroupBy string         `json:"groupBy"`
		Counts  map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "status", body.GroupBy)
	assert.Equal(t, 4, body.Counts["pending"])
}

func TestHandleStatusTransition(t *testing.T) {
	engine := &stubEngine{listing: &models.Listing{ID: "l1", Status: models.StatusPublished}}
	s := newTestServer(&stubStore{}, engine, &stubCounts{})

	rec := doRequest(t, s, http.MethodPost, "/api/listings/l1/status",
		`{"to":"published"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusPublished, engine.lastTo)
}

func TestHandleStatusTransition_IllegalMove(t *testing.T) {
	engine := &stubEngine{err: errors.NewIllegalTransitionError("archived", "pending")}
	s := newTestServer(&stubStore{}, engine, &stubCounts{})

	rec := doRequest(t, s, http.MethodPost, "/api/listings/l1/status",
		`{"to":"pending"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(errors.ErrCodeIllegalTransition), errorCode(t, rec))
}

func TestHandleStatusTransition_MalformedBody(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodPost, "/api/listings/l1/status", `{"to":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidateListing(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodPost, "/api/listings/validate",
		`{"type":"business","payload":{"name":"Cafe for sale","industry":"food","country":"IN","price":100000,"annualRevenue":250000}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Valid  bool     `json:"valid"`
		Issues []string `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
}

func TestHandleValidateListing_ReportsIssues(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodPost, "/api/listings/validate",
		`{"type":"business","payload":{"name":"Cafe"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Valid  bool     `json:"valid"`
		Issues []string `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)
}

// ==========================
// Advisor Endpoint Tests
// ==========================

func TestHandleListAdvisors(t *testing.T) {
	store := &stubStore{advisorPage: &query.AdvisorPage{
		Advisors: []models.Advisor{{ID: "a1"}},
	}}
	s := newTestServer(store, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/advisors?status=active&verified=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleListAdvisors_RejectsUnknownStatus(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/api/advisors?status=retired", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubStore{}, &stubEngine{}, &stubCounts{})

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
