// internal/models/document.go
package models

import "time"

// Document is a file attached to a listing (financials, agreements, proofs).
type Document struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}
