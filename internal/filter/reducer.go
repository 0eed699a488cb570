// internal/filter/reducer.go
package filter

import "time"

// ToggleSetMember adds value to the named set if absent and removes it if
// present. Toggling the same value twice returns the original filter.
// Unknown field names leave the filter unchanged.
func (f ListingFilter) ToggleSetMember(field SetField, value string) ListingFilter {
	out := f.clone()
	set := out.setByField(field)
	if set == nil {
		return out
	}
	*set = toggle(*set, value)
	return out
}

func toggle(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			next := make([]string, 0, len(set)-1)
			next = append(next, set[:i]...)
			next = append(next, set[i+1:]...)
			if len(next) == 0 {
				return nil
			}
			return next
		}
	}
	return append(set, value)
}

// SetTriState applies a three-way toggle driven by a two-valued control:
// selecting the value the field already holds deselects it back to Unset.
func (f ListingFilter) SetTriState(field BoolField, value TriState) ListingFilter {
	out := f.clone()
	var target *TriState
	switch field {
	case FieldFeatured:
		target = &out.IsFeatured
	case FieldVerified:
		target = &out.IsVerified
	default:
		return out
	}
	if *target == value {
		*target = Unset
	} else {
		*target = value
	}
	return out
}

// SetLocation sets one part of the dependent location refinement. Changing
// the country to a different value clears state and city; changing the
// state clears city. An empty value clears the part (and its dependents).
func (f ListingFilter) SetLocation(part LocationPart, value string) ListingFilter {
	out := f.clone()
	switch part {
	case PartCountry:
		if out.Location.Country != value {
			out.Location.State = ""
			out.Location.City = ""
		}
		out.Location.Country = value
	case PartState:
		if out.Location.State != value {
			out.Location.City = ""
		}
		out.Location.State = value
	case PartCity:
		out.Location.City = value
	}
	return out
}

// SetPriceBound sets one end of the price range; nil clears it. An edit
// that would invert an already-complete range is rejected and the filter
// returned unchanged, so the range stays well-formed without ever
// surfacing an error to the panel.
func (f ListingFilter) SetPriceBound(b Bound, value *float64) ListingFilter {
	out := f.clone()
	switch b {
	case Lower:
		if value != nil && out.Price.Max != nil && *value > *out.Price.Max {
			return f.clone()
		}
		out.Price.Min = cloneFloat(value)
	case Upper:
		if value != nil && out.Price.Min != nil && *value < *out.Price.Min {
			return f.clone()
		}
		out.Price.Max = cloneFloat(value)
	}
	return out
}

// SetDateBound sets one end of the created-at range; nil clears it.
// Inverting edits are rejected the same way as for SetPriceBound.
func (f ListingFilter) SetDateBound(b Bound, value *time.Time) ListingFilter {
	out := f.clone()
	switch b {
	case Lower:
		if value != nil && out.Dates.To != nil && value.After(*out.Dates.To) {
			return f.clone()
		}
		out.Dates.From = cloneTime(value)
	case Upper:
		if value != nil && out.Dates.From != nil && value.Before(*out.Dates.From) {
			return f.clone()
		}
		out.Dates.To = cloneTime(value)
	}
	return out
}

// SetSearch replaces the free-text query.
func (f ListingFilter) SetSearch(q string) ListingFilter {
	out := f.clone()
	out.Search = q
	return out
}

// Reset drops every constraint, optionally keeping the search string.
// Reset is idempotent: resetting a reset filter is a no-op.
func (f ListingFilter) Reset(preserveSearch bool) ListingFilter {
	if preserveSearch {
		return ListingFilter{Search: f.Search}
	}
	return ListingFilter{}
}
