// internal/filter/advisors.go
package filter

// AdvisorFilter is the smaller predicate set for the advisors table. Same
// combination rules as ListingFilter: OR within the status set, AND across
// fields, absent fields unconstrained.
type AdvisorFilter struct {
	Search     string   `json:"search,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
	IsVerified TriState `json:"isVerified,omitempty"`
	Country    string   `json:"country,omitempty"`
}

// ToggleStatus toggles membership in the status set.
func (f AdvisorFilter) ToggleStatus(value string) AdvisorFilter {
	out := f
	out.Statuses = toggle(cloneSet(f.Statuses), value)
	return out
}

// SetVerified applies the tri-state toggle to the verified flag.
func (f AdvisorFilter) SetVerified(value TriState) AdvisorFilter {
	out := f
	if out.IsVerified == value {
		out.IsVerified = Unset
	} else {
		out.IsVerified = value
	}
	return out
}

// SetCountry sets or clears the country constraint.
func (f AdvisorFilter) SetCountry(value string) AdvisorFilter {
	out := f
	out.Country = value
	return out
}

// Reset drops every constraint, optionally keeping the search string.
func (f AdvisorFilter) Reset(preserveSearch bool) AdvisorFilter {
	if preserveSearch {
		return AdvisorFilter{Search: f.Search}
	}
	return AdvisorFilter{}
}

// ActiveCountAdvisors is the badge count for an advisor filter.
func ActiveCountAdvisors(f AdvisorFilter) int {
	n := 0
	if len(f.Statuses) > 0 {
		n++
	}
	if f.IsVerified != Unset {
		n++
	}
	if f.Country != "" {
		n++
	}
	return n
}
