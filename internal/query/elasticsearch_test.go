// internal/query/elasticsearch_test.go
package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/internal/filter"
)

// ==========================
// Search Body Translation Tests
// ==========================

func TestBuildSearchBody_EmptyFilterIsMatchAll(t *testing.T) {
	body := BuildSearchBody(filter.New(""), 10, nil)

	assert.Equal(t, 11, body["size"], "must ask for one probe row beyond the page")

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
	assert.NotContains(t, boolQuery, "filter", "empty filter must impose no constraints")
	assert.NotContains(t, body, "search_after")
}

func TestBuildSearchBody_SearchUsesMultiMatch(t *testing.T) {
	body := BuildSearchBody(filter.New("cloud kitchen"), 10, nil)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "cloud kitchen", mm["query"])
	assert.Equal(t, []string{"name^3", "description^2", "id"}, mm["fields"])
}

func TestBuildSearchBody_OneClausePerActiveField(t *testing.T) {
	min := 10000.0
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	f := filter.New("")
	f = f.ToggleSetMember(filter.FieldTypes, "business")
	f = f.ToggleSetMember(filter.FieldTypes, "franchise")
	f = f.ToggleSetMember(filter.FieldStatuses, "pending")
	f = f.SetTriState(filter.FieldFeatured, filter.Exclude)
	f = f.SetLocation(filter.PartCountry, "IN")
	f = f.SetPriceBound(filter.Lower, &min)
	f = f.SetDateBound(filter.Lower, &from)

	body := BuildSearchBody(f, 10, nil)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	clauses := boolQuery["filter"].([]interface{})

	// types, statuses, featured, country, price, dates: one clause each
	assert.Len(t, clauses, 6)

	var termsSeen, termSeen, rangeSeen int
	for _, c := range clauses {
		clause := c.(map[string]interface{})
		if terms, ok := clause["terms"].(map[string]interface{}); ok {
			termsSeen++
			if values, ok := terms["type"].([]string); ok {
				assert.ElementsMatch(t, []string{"business", "franchise"}, values)
			}
		}
		if term, ok := clause["term"].(map[string]interface{}); ok {
			termSeen++
			if v, ok := term["is_featured"]; ok {
				assert.Equal(t, false, v, "Exclude pins the flag to false")
			}
		}
		if _, ok := clause["range"]; ok {
			rangeSeen++
		}
	}
	assert.Equal(t, 2, termsSeen)
	assert.Equal(t, 2, termSeen)
	assert.Equal(t, 2, rangeSeen)
}

func TestBuildSearchBody_SortAndSearchAfter(t *testing.T) {
	after := &Cursor{
		CreatedAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		ID:        "listing-42",
	}

	body := BuildSearchBody(filter.New(""), 10, after)

	sort := body["sort"].([]map[string]interface{})
	require.Len(t, sort, 2)
	assert.Equal(t, "desc", sort[0]["created_at"])
	assert.Equal(t, "desc", sort[1]["id"])

	sa := body["search_after"].([]interface{})
	require.Len(t, sa, 2)
	assert.Equal(t, "2025-06-15T10:30:00Z", sa[0])
	assert.Equal(t, "listing-42", sa[1])
}

func TestBuildSearchBody_DateBoundsAreRFC3339(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	f := filter.New("")
	f = f.SetDateBound(filter.Lower, &from)
	f = f.SetDateBound(filter.Upper, &to)

	body := BuildSearchBody(f, 10, nil)
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	clauses := boolQuery["filter"].([]interface{})
	require.Len(t, clauses, 1)

	bounds := clauses[0].(map[string]interface{})["range"].(map[string]interface{})["created_at"].(map[string]interface{})
	assert.Equal(t, "2025-03-01T00:00:00Z", bounds["gte"])
	assert.Equal(t, "2025-04-01T00:00:00Z", bounds["lte"])
}
