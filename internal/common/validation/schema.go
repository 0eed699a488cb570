// internal/common/validation/schema.go

// Package validation checks listing payloads against per-sub-type JSON
// schemas. This is the server-side counterpart of the console's multi-step
// create/edit form: the form enforces the same shape field by field, the
// API rejects anything that slipped past it.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"marketplace-admin/internal/models"
)

// Result is the outcome of a payload validation.
type Result struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

var baseProperties = map[string]interface{}{
	"name":        map[string]interface{}{"type": "string", "minLength": 3, "maxLength": 120},
	"description": map[string]interface{}{"type": "string", "maxLength": 5000},
	"industry":    map[string]interface{}{"type": "string"},
	"country":     map[string]interface{}{"type": "string"},
	"state":       map[string]interface{}{"type": "string"},
	"city":        map[string]interface{}{"type": "string"},
	"price":       map[string]interface{}{"type": "number", "minimum": 0},
	"contactEmail": map[string]interface{}{
		"type": "string", "format": "email",
	},
	"contactPhone": map[string]interface{}{"type": "string"},
}

// typeSchemas holds the per-sub-type schema bodies. Each sub-type shares
// the base listing properties and adds its own required section.
var typeSchemas = map[models.ListingType]map[string]interface{}{
	models.ListingTypeBusiness: buildSchema(map[string]interface{}{
		"annualRevenue":   map[string]interface{}{"type": "number", "minimum": 0},
		"employeeCount":   map[string]interface{}{"type": "integer", "minimum": 0},
		"yearEstablished": map[string]interface{}{"type": "integer", "minimum": 1800},
	}, []string{"name", "price", "annualRevenue"}),

	models.ListingTypeFranchise: buildSchema(map[string]interface{}{
		"franchiseFee":  map[string]interface{}{"type": "number", "minimum": 0},
		"royaltyRate":   map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
		"outletCount":   map[string]interface{}{"type": "integer", "minimum": 0},
		"investmentMin": map[string]interface{}{"type": "number", "minimum": 0},
		"investmentMax": map[string]interface{}{"type": "number", "minimum": 0},
	}, []string{"name", "franchiseFee", "investmentMin", "investmentMax"}),

	models.ListingTypeStartup: buildSchema(map[string]interface{}{
		"fundingStage": map[string]interface{}{
			"type": "string",
			"enum": []string{"idea", "pre_seed", "seed", "series_a", "series_b", "growth"},
		},
		"monthlyRevenue": map[string]interface{}{"type": "number", "minimum": 0},
		"teamSize":       map[string]interface{}{"type": "integer", "minimum": 1},
	}, []string{"name", "fundingStage"}),

	models.ListingTypeInvestor: buildSchema(map[string]interface{}{
		"investmentRangeMin":  map[string]interface{}{"type": "number", "minimum": 0},
		"investmentRangeMax":  map[string]interface{}{"type": "number", "minimum": 0},
		"preferredIndustries": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
	}, []string{"name", "investmentRangeMin", "investmentRangeMax"}),

	models.ListingTypeDigitalAsset: buildSchema(map[string]interface{}{
		"assetKind": map[string]interface{}{
			"type": "string",
			"enum": []string{"website", "app", "saas", "domain", "social_account"},
		},
		"monthlyTraffic": map[string]interface{}{"type": "integer", "minimum": 0},
		"monthlyProfit":  map[string]interface{}{"type": "number"},
	}, []string{"name", "price", "assetKind"}),
}

func buildSchema(extra map[string]interface{}, required []string) map[string]interface{} {
	props := make(map[string]interface{}, len(baseProperties)+len(extra))
	for k, v := range baseProperties {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// ValidateListingPayload checks payload against the schema for its
// sub-type. Unknown sub-types are a validation failure, not an error:
// the boundary rejects fields and types it does not know.
func ValidateListingPayload(listingType models.ListingType, payload map[string]interface{}) (*Result, error) {
	schema, ok := typeSchemas[listingType]
	if !ok {
		return &Result{
			Valid:  false,
			Issues: []string{fmt.Sprintf("unknown listing type %q", listingType)},
		}, nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if res.Valid() {
		return &Result{Valid: true}, nil
	}

	issues := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		issues = append(issues, e.String())
	}
	return &Result{Valid: false, Issues: issues}, nil
}
