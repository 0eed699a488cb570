// internal/workflow/transitions.go

// Package workflow owns the listing status lifecycle: which moves are
// legal, applying them against storage with optimistic concurrency, and
// the side effects (seller notification, badge-count invalidation) that
// ride on a transition.
package workflow

import (
	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/models"
)

// allowedTransitions is the full lifecycle. Archiving is reachable from
// every status because admins can retire a listing at any point.
var allowedTransitions = map[models.ListingStatus][]models.ListingStatus{
	models.StatusDraft:     {models.StatusPending, models.StatusArchived},
	models.StatusPending:   {models.StatusPublished, models.StatusRejected, models.StatusDraft, models.StatusArchived},
	models.StatusRejected:  {models.StatusPending, models.StatusArchived},
	models.StatusPublished: {models.StatusArchived},
	models.StatusArchived:  {},
}

// CanTransition reports whether moving a listing from one status to
// another is legal.
func CanTransition(from, to models.ListingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one, for
// rendering the admin action menu.
func NextStatuses(from models.ListingStatus) []models.ListingStatus {
	next := allowedTransitions[from]
	out := make([]models.ListingStatus, len(next))
	copy(out, next)
	return out
}

// CheckTransition validates a move and returns a typed error when it is
// illegal.
func CheckTransition(from, to models.ListingStatus) error {
	if !models.ValidListingStatus(string(to)) {
		return errors.NewIllegalTransitionError(string(from), string(to))
	}
	if !CanTransition(from, to) {
		return errors.NewIllegalTransitionError(string(from), string(to))
	}
	return nil
}
