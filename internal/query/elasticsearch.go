// internal/query/elasticsearch.go
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	commonerrors "marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/metrics"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
)

// Search is the Elasticsearch listing backend, used when free-text
// relevance matters more than transactional freshness.
type Search struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearch(client *elasticsearch.Client, index string, log logger.Logger) *Search {
	return &Search{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"backend": "elasticsearch", "index": index}),
	}
}

// BuildSearchBody translates the filter into an Elasticsearch bool query.
// Exported for tests: the body is a pure function of the filter and cursor.
func BuildSearchBody(f filter.ListingFilter, pageSize int, after *Cursor) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if f.Search != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  f.Search,
				"fields": []string{"name^3", "description^2", "id"},
				"type":   "best_fields",
			},
		})
	}

	for field, values := range map[string][]string{
		"type":     f.Types,
		"status":   f.Statuses,
		"industry": f.Industries,
		"plan":     f.Plans,
	} {
		if len(values) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{field: values},
			})
		}
	}

	if f.IsFeatured != filter.Unset {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"is_featured": f.IsFeatured == filter.Include},
		})
	}
	if f.IsVerified != filter.Unset {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"is_verified": f.IsVerified == filter.Include},
		})
	}

	for field, value := range map[string]string{
		"country": f.Location.Country,
		"state":   f.Location.State,
		"city":    f.Location.City,
	} {
		if value != "" {
			filterClauses = append(filterClauses, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}

	if !f.Price.Empty() {
		bounds := map[string]interface{}{}
		if f.Price.Min != nil {
			bounds["gte"] = *f.Price.Min
		}
		if f.Price.Max != nil {
			bounds["lte"] = *f.Price.Max
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"price": bounds},
		})
	}

	if !f.Dates.Empty() {
		bounds := map[string]interface{}{}
		if f.Dates.From != nil {
			bounds["gte"] = f.Dates.From.UTC().Format(time.RFC3339)
		}
		if f.Dates.To != nil {
			bounds["lte"] = f.Dates.To.UTC().Format(time.RFC3339)
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"created_at": bounds},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": mustClauses}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	body := map[string]interface{}{
		"size":  pageSize + 1,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []map[string]interface{}{
			{"created_at": "desc"},
			{"id": "desc"},
		},
	}

	if after != nil {
		body["search_after"] = []interface{}{
			after.CreatedAt.UTC().Format(time.RFC3339Nano),
			after.ID,
		}
	}

	return body
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Listing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// FetchPage runs the translated query and returns one page plus the next
// cursor, with the same one-row look-ahead as the Postgres store.
func (s *Search) FetchPage(ctx context.Context, f filter.ListingFilter, pageSize int, cursor string) (*Page, error) {
	if pageSize <= 0 {
		return nil, &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidPageSize,
			Message:   fmt.Sprintf("page size must be positive, got %d", pageSize),
			Timestamp: time.Now().UTC(),
		}
	}

	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	body, _ := json.Marshal(BuildSearchBody(f, pageSize, after))

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
	}

	start := time.Now()
	res, err := req.Do(ctx, s.client)
	metrics.QueryDuration.WithLabelValues("elasticsearch").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.WithError(err).Error("listing search failed", nil)
		return nil, commonerrors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, commonerrors.NewSearchError(fmt.Errorf("elasticsearch: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, commonerrors.NewSearchError(err)
	}

	listings := make([]models.Listing, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		listings = append(listings, hit.Source)
	}

	page := &Page{}
	if len(listings) > pageSize {
		listings = listings[:pageSize]
		last := listings[len(listings)-1]
		page.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if len(listings) > 0 {
		page.Listings = listings
	}

	return page, nil
}
