// internal/filter/count.go
package filter

// ActiveCount is the badge number shown next to the filter button: one per
// non-empty set field, one if any tri-state boolean is pinned, one if any
// location part is set, one per range with at least one bound. The free-
// text search is deliberately not counted.
func ActiveCount(f ListingFilter) int {
	n := 0
	for _, set := range [][]string{f.Types, f.Statuses, f.Industries, f.Plans} {
		if len(set) > 0 {
			n++
		}
	}
	if f.IsFeatured != Unset || f.IsVerified != Unset {
		n++
	}
	if !f.Location.Empty() {
		n++
	}
	if !f.Price.Empty() {
		n++
	}
	if !f.Dates.Empty() {
		n++
	}
	return n
}
