// internal/models/listing.go
package models

import "time"

// ListingType discriminates the listing sub-types sold on the marketplace.
type ListingType string

const (
	ListingTypeBusiness     ListingType = "business"
	ListingTypeFranchise    ListingType = "franchise"
	ListingTypeStartup      ListingType = "startup"
	ListingTypeInvestor     ListingType = "investor"
	ListingTypeDigitalAsset ListingType = "digital_asset"
)

// ListingStatus is the publication state of a listing.
type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusPending   ListingStatus = "pending"
	StatusPublished ListingStatus = "published"
	StatusRejected  ListingStatus = "rejected"
	StatusArchived  ListingStatus = "archived"
)

// ListingPlan is the subscription tier a listing is published under.
type ListingPlan string

const (
	PlanFree       ListingPlan = "free"
	PlanBasic      ListingPlan = "basic"
	PlanPremium    ListingPlan = "premium"
	PlanEnterprise ListingPlan = "enterprise"
)

var validTypes = map[ListingType]bool{
	ListingTypeBusiness: true, ListingTypeFranchise: true, ListingTypeStartup: true,
	ListingTypeInvestor: true, ListingTypeDigitalAsset: true,
}

var validStatuses = map[ListingStatus]bool{
	StatusDraft: true, StatusPending: true, StatusPublished: true,
	StatusRejected: true, StatusArchived: true,
}

var validPlans = map[ListingPlan]bool{
	PlanFree: true, PlanBasic: true, PlanPremium: true, PlanEnterprise: true,
}

// ValidListingType reports whether s names a known listing sub-type.
func ValidListingType(s string) bool { return validTypes[ListingType(s)] }

// ValidListingStatus reports whether s names a known publication status.
func ValidListingStatus(s string) bool { return validStatuses[ListingStatus(s)] }

// ValidListingPlan reports whether s names a known subscription tier.
func ValidListingPlan(s string) bool { return validPlans[ListingPlan(s)] }

// Listing is a marketplace listing as stored by the backend.
type Listing struct {
	ID           string        `json:"id"`
	AdvisorID    string        `json:"advisorId"`
	Type         ListingType   `json:"type"`
	Status       ListingStatus `json:"status"`
	Plan         ListingPlan   `json:"plan"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Industry     string        `json:"industry"`
	Country      string        `json:"country"`
	State        string        `json:"state"`
	City         string        `json:"city"`
	Price        float64       `json:"price"`
	IsFeatured   bool          `json:"isFeatured"`
	IsVerified   bool          `json:"isVerified"`
	ContactEmail string        `json:"contactEmail"`
	ContactPhone string        `json:"contactPhone"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
