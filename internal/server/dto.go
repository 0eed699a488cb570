// internal/server/dto.go
package server

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
)

// pageEnvelope is the list response shape. NextCursor is empty on the
// last page; clients feed it back verbatim via the cursor param.
type pageEnvelope struct {
	Records    interface{} `json:"records"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

type statusTransitionRequest struct {
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

type validateListingRequest struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// parseListingFilter decodes query parameters into a filter. The filter
// reducer itself accepts anything; unknown field values are rejected
// here, at the API boundary, so garbage never reaches the translator.
func parseListingFilter(params url.Values) (filter.ListingFilter, error) {
	f := filter.New(params.Get("search"))

	for _, v := range params["type"] {
		if !models.ValidListingType(v) {
			return f, errors.NewInvalidFilterError(fmt.Sprintf("unknown listing type %q", v))
		}
		f = f.ToggleSetMember(filter.FieldTypes, v)
	}
	for _, v := range params["status"] {
		if !models.ValidListingStatus(v) {
			return f, errors.NewInvalidFilterError(fmt.Sprintf("unknown listing status %q", v))
		}
		f = f.ToggleSetMember(filter.FieldStatuses, v)
	}
	for _, v := range params["plan"] {
		if !models.ValidListingPlan(v) {
			return f, errors.NewInvalidFilterError(fmt.Sprintf("unknown listing plan %q", v))
		}
		f = f.ToggleSetMember(filter.FieldPlans, v)
	}
	for _, v := range params["industry"] {
		f = f.ToggleSetMember(filter.FieldIndustries, v)
	}

	var err error
	if f, err = applyTriState(f, filter.FieldFeatured, params.Get("featured")); err != nil {
		return f, err
	}
	if f, err = applyTriState(f, filter.FieldVerified, params.Get("verified")); err != nil {
		return f, err
	}

	if v := params.Get("country"); v != "" {
		f = f.SetLocation(filter.PartCountry, v)
	}
	if v := params.Get("state"); v != "" {
		f = f.SetLocation(filter.PartState, v)
	}
	if v := params.Get("city"); v != "" {
		f = f.SetLocation(filter.PartCity, v)
	}

	var priceMin, priceMax *float64
	if priceMin, err = parseFloatParam(params, "price_min"); err != nil {
		return f, err
	}
	if priceMax, err = parseFloatParam(params, "price_max"); err != nil {
		return f, err
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return f, errors.NewInvalidFilterError("price_min exceeds price_max")
	}
	f = f.SetPriceBound(filter.Lower, priceMin)
	f = f.SetPriceBound(filter.Upper, priceMax)

	var from, to *time.Time
	if from, err = parseTimeParam(params, "created_from"); err != nil {
		return f, err
	}
	if to, err = parseTimeParam(params, "created_to"); err != nil {
		return f, err
	}
	if from != nil && to != nil && from.After(*to) {
		return f, errors.NewInvalidFilterError("created_from is after created_to")
	}
	f = f.SetDateBound(filter.Lower, from)
	f = f.SetDateBound(filter.Upper, to)

	return f, nil
}

func parseAdvisorFilter(params url.Values) (filter.AdvisorFilter, error) {
	f := filter.AdvisorFilter{Search: params.Get("search")}

	for _, v := range params["status"] {
		if !models.ValidAdvisorStatus(v) {
			return f, errors.NewInvalidFilterError(fmt.Sprintf("unknown advisor status %q", v))
		}
		f = f.ToggleStatus(v)
	}

	switch v := params.Get("verified"); v {
	case "":
	case "true":
		f = f.SetVerified(filter.Include)
	case "false":
		f = f.SetVerified(filter.Exclude)
	default:
		return f, errors.NewInvalidFilterError(fmt.Sprintf("verified must be true or false, got %q", v))
	}

	f = f.SetCountry(params.Get("country"))
	return f, nil
}

func applyTriState(f filter.ListingFilter, field filter.BoolField, raw string) (filter.ListingFilter, error) {
	switch raw {
	case "":
		return f, nil
	case "true":
		return f.SetTriState(field, filter.Include), nil
	case "false":
		return f.SetTriState(field, filter.Exclude), nil
	default:
		return f, errors.NewInvalidFilterError(fmt.Sprintf("%s must be true or false, got %q", field, raw))
	}
}

func parseFloatParam(params url.Values, name string) (*float64, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewInvalidFilterError(fmt.Sprintf("%s is not a number: %q", name, raw))
	}
	return &v, nil
}

func parseTimeParam(params url.Values, name string) (*time.Time, error) {
	raw := params.Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, errors.NewInvalidFilterError(fmt.Sprintf("%s is not a date: %q", name, raw))
}

// parsePageSize applies the configured default and ceiling.
func parsePageSize(params url.Values, def, max int) (int, error) {
	raw := params.Get("page_size")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.NewInvalidFilterError(fmt.Sprintf("page_size must be a positive integer, got %q", raw))
	}
	if n > max {
		n = max
	}
	return n, nil
}
