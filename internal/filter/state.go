// internal/filter/state.go

// Package filter holds the listing and advisor filter state used by the
// admin console, together with the reducer operations that edit a draft
// filter and the active-filter badge count. Every operation is a total
// function: no input leaves the filter in an invalid shape and nothing
// here ever returns an error. Only the query translators can fail.
package filter

import "time"

// TriState is a filter constraint that is either absent, or pins a
// boolean column to true (Include) or false (Exclude). The explicit
// enumeration avoids the ambiguous nil-pointer comparisons the old
// console suffered from.
type TriState int

const (
	Unset TriState = iota
	Include
	Exclude
)

func (t TriState) String() string {
	switch t {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "unset"
	}
}

// SetField names one of the OR-combined set-valued filter fields.
type SetField string

const (
	FieldTypes      SetField = "types"
	FieldStatuses   SetField = "statuses"
	FieldIndustries SetField = "industries"
	FieldPlans      SetField = "plans"
)

// BoolField names one of the tri-state boolean filter fields.
type BoolField string

const (
	FieldFeatured BoolField = "isFeatured"
	FieldVerified BoolField = "isVerified"
)

// LocationPart names one level of the dependent location refinement.
type LocationPart string

const (
	PartCountry LocationPart = "country"
	PartState   LocationPart = "state"
	PartCity    LocationPart = "city"
)

// Bound selects the lower or upper end of a range field.
type Bound int

const (
	Lower Bound = iota
	Upper
)

// Location is a dependent refinement: state only means something under a
// country, city only under a state.
type Location struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Empty reports whether no location part is set.
func (l Location) Empty() bool {
	return l.Country == "" && l.State == "" && l.City == ""
}

// PriceRange constrains the asking price. Nil bounds are open ends.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Empty reports whether neither bound is set.
func (r PriceRange) Empty() bool { return r.Min == nil && r.Max == nil }

// DateRange constrains the listing creation date. Nil bounds are open ends.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Empty reports whether neither bound is set.
func (r DateRange) Empty() bool { return r.From == nil && r.To == nil }

// ListingFilter is the full predicate set for the listings table. Values
// within one set field are OR-combined; distinct fields are AND-combined
// by the query translators. An empty or absent field imposes no
// constraint at all.
type ListingFilter struct {
	Search     string     `json:"search,omitempty"`
	Types      []string   `json:"types,omitempty"`
	Statuses   []string   `json:"statuses,omitempty"`
	Industries []string   `json:"industries,omitempty"`
	Plans      []string   `json:"plans,omitempty"`
	IsFeatured TriState   `json:"isFeatured,omitempty"`
	IsVerified TriState   `json:"isVerified,omitempty"`
	Location   Location   `json:"location,omitempty"`
	Price      PriceRange `json:"price,omitempty"`
	Dates      DateRange  `json:"dates,omitempty"`
}

// New returns an empty filter, optionally pre-seeded with a search string.
func New(search string) ListingFilter {
	return ListingFilter{Search: search}
}

// setByField returns the named set, or nil for an unknown field name.
func (f *ListingFilter) setByField(field SetField) *[]string {
	switch field {
	case FieldTypes:
		return &f.Types
	case FieldStatuses:
		return &f.Statuses
	case FieldIndustries:
		return &f.Industries
	case FieldPlans:
		return &f.Plans
	}
	return nil
}

// clone deep-copies the filter so reducer operations can return a fresh
// value without aliasing the caller's slices or range pointers.
func (f ListingFilter) clone() ListingFilter {
	out := f
	out.Types = cloneSet(f.Types)
	out.Statuses = cloneSet(f.Statuses)
	out.Industries = cloneSet(f.Industries)
	out.Plans = cloneSet(f.Plans)
	out.Price.Min = cloneFloat(f.Price.Min)
	out.Price.Max = cloneFloat(f.Price.Max)
	out.Dates.From = cloneTime(f.Dates.From)
	out.Dates.To = cloneTime(f.Dates.To)
	return out
}

func cloneSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
