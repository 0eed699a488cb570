// internal/workflow/engine.go
package workflow

import (
	"context"

	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/metrics"
	"marketplace-admin/internal/models"
)

// ListingStore is the storage surface the engine needs. UpdateStatus is
// expected to enforce the compare-and-set on the current status and
// return a conflict error when another admin moved the listing first.
type ListingStore interface {
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	UpdateStatus(ctx context.Context, id string, from, to models.ListingStatus) error
}

// Notifier delivers the status-change message to the listing owner.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, listing *models.Listing, to models.ListingStatus, reason string) error
}

// CountsInvalidator drops cached badge counts after a transition.
type CountsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Engine applies status transitions with their side effects.
type Engine struct {
	store    ListingStore
	notifier Notifier
	counts   CountsInvalidator
	logger   logger.Logger
}

// NewEngine creates a workflow engine. Notifier and invalidator may be
// nil when the deployment has them disabled.
func NewEngine(store ListingStore, notifier Notifier, counts CountsInvalidator, log logger.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		counts:   counts,
		logger:   log,
	}
}

// Transition moves a listing to the target status. The read-then-update
// pair is optimistic: the update re-checks the status it read, and a
// concurrent transition surfaces as a conflict error rather than a lost
// update. Notification and cache invalidation are best-effort; their
// failures are logged but do not roll the transition back.
func (e *Engine) Transition(ctx context.Context, id string, to models.ListingStatus, reason string) (*models.Listing, error) {
	listing, err := e.store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	from := listing.Status
	if err := CheckTransition(from, to); err != nil {
		metrics.StatusTransitions.WithLabelValues(string(to), "illegal").Inc()
		return nil, err
	}

	if err := e.store.UpdateStatus(ctx, id, from, to); err != nil {
		metrics.StatusTransitions.WithLabelValues(string(to), "conflict").Inc()
		return nil, err
	}
	listing.Status = to
	metrics.StatusTransitions.WithLabelValues(string(to), "success").Inc()

	e.logger.Info("listing status changed", map[string]interface{}{
		"listing_id": id,
		"from":       string(from),
		"to":         string(to),
	})

	if e.notifier != nil && (to == models.StatusPublished || to == models.StatusRejected) {
		if err := e.notifier.NotifyStatusChange(ctx, listing, to, reason); err != nil {
			e.logger.WithError(err).Warn("status notification failed", map[string]interface{}{
				"listing_id": id,
				"to":         string(to),
			})
		}
	}

	if e.counts != nil {
		if err := e.counts.Invalidate(ctx); err != nil {
			e.logger.WithError(err).Warn("counts cache invalidation failed", map[string]interface{}{
				"listing_id": id,
			})
		}
	}

	return listing, nil
}
