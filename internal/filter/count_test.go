// internal/filter/count_test.go
package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveCount(t *testing.T) {
	tests := []struct {
		name     string
		filter   ListingFilter
		expected int
	}{
		{name: "empty filter", filter: ListingFilter{}, expected: 0},
		{name: "search alone is not counted", filter: ListingFilter{Search: "bakery"}, expected: 0},
		{
			name:     "one set field",
			filter:   ListingFilter{Statuses: []string{"pending", "draft"}},
			expected: 1,
		},
		{
			name: "both tri-states count once",
			filter: ListingFilter{
				IsFeatured: Include,
				IsVerified: Exclude,
			},
			expected: 1,
		},
		{
			name:     "partial location counts once",
			filter:   ListingFilter{Location: Location{Country: "US"}},
			expected: 1,
		},
		{
			name:     "single price bound counts once",
			filter:   ListingFilter{Price: PriceRange{Max: floatPtr(100000)}},
			expected: 1,
		},
		{name: "everything set", filter: populatedFilter(), expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ActiveCount(tt.filter))
		})
	}
}

func TestActiveCount_ToggleMonotonicity(t *testing.T) {
	base := ListingFilter{}

	for _, field := range []SetField{FieldTypes, FieldStatuses, FieldIndustries, FieldPlans} {
		before := ActiveCount(base)
		on := base.ToggleSetMember(field, "x")
		assert.Equal(t, before+1, ActiveCount(on), "adding to empty %s must add exactly 1", field)

		off := on.ToggleSetMember(field, "x")
		assert.Equal(t, before, ActiveCount(off), "toggling %s back off must subtract exactly 1", field)
	}
}

func TestActiveCountAdvisors(t *testing.T) {
	f := AdvisorFilter{Search: "jane"}
	assert.Equal(t, 0, ActiveCountAdvisors(f))

	f = f.ToggleStatus("active")
	f = f.SetVerified(Include)
	f = f.SetCountry("US")
	assert.Equal(t, 3, ActiveCountAdvisors(f))

	assert.Equal(t, 0, ActiveCountAdvisors(f.Reset(true)))
}
