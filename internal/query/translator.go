// internal/query/translator.go

// Package query translates a committed filter into backend queries and
// pages through the results with opaque keyset cursors. The translation
// contract: each filter field maps to exactly one constraint, values are
// OR-combined within a field and AND-combined across fields, and an
// absent or empty field imposes no constraint. For a fixed data set the
// same (filter, cursor) pair always yields the same page.
package query

import (
	"context"

	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
)

// Page is one page of listings plus the token for the next one. An empty
// NextCursor is the "no more results" sentinel.
type Page struct {
	Listings   []models.Listing `json:"records"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// AdvisorPage is one page of advisors.
type AdvisorPage struct {
	Advisors   []models.Advisor `json:"records"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// ListingSource fetches listing pages for a committed filter. Implemented
// by the Postgres store and the Elasticsearch search backend.
type ListingSource interface {
	FetchPage(ctx context.Context, f filter.ListingFilter, pageSize int, cursor string) (*Page, error)
}
