// internal/models/advisor.go
package models

import "time"

// AdvisorStatus is the account state of an advisor.
type AdvisorStatus string

const (
	AdvisorActive    AdvisorStatus = "active"
	AdvisorPending   AdvisorStatus = "pending"
	AdvisorSuspended AdvisorStatus = "suspended"
)

var validAdvisorStatuses = map[AdvisorStatus]bool{
	AdvisorActive: true, AdvisorPending: true, AdvisorSuspended: true,
}

// ValidAdvisorStatus reports whether s names a known advisor state.
func ValidAdvisorStatus(s string) bool { return validAdvisorStatuses[AdvisorStatus(s)] }

// Advisor is a seller/broker account managing one or more listings.
type Advisor struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Status       AdvisorStatus `json:"status"`
	Country      string        `json:"country"`
	IsVerified   bool          `json:"isVerified"`
	ListingCount int           `json:"listingCount"`
	CreatedAt    time.Time     `json:"createdAt"`
}
