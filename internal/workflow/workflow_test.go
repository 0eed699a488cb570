// internal/workflow/workflow_test.go
package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeStore struct {
	listing   *models.Listing
	getErr    error
	updateErr error
	updated   []models.ListingStatus // [from, to] of the last update
}

func (s *fakeStore) GetListing(_ context.Context, id string) (*models.Listing, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	l := *s.listing
	return &l, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, _ string, from, to models.ListingStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = []models.ListingStatus{from, to}
	return nil
}

type fakeNotifier struct {
	sent []models.ListingStatus
	err  error
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, _ *models.Listing, to models.ListingStatus, _ string) error {
	n.sent = append(n.sent, to)
	return n.err
}

type fakeInvalidator struct {
	calls int
}

func (i *fakeInvalidator) Invalidate(_ context.Context) error {
	i.calls++
	return nil
}

func pendingListing() *models.Listing {
	return &models.Listing{
		ID:     "listing-1",
		Name:   "Cafe for sale",
		Type:   models.ListingTypeBusiness,
		Status: models.StatusPending,
	}
}

// ==========================
// Transition Table Tests
// ==========================

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.ListingStatus
		to   models.ListingStatus
		want bool
	}{
		{"draft submits for review", models.StatusDraft, models.StatusPending, true},
		{"pending approves", models.StatusPending, models.StatusPublished, true},
		{"pending rejects", models.StatusPending, models.StatusRejected, true},
		{"pending withdraws to draft", models.StatusPending, models.StatusDraft, true},
		{"rejected resubmits", models.StatusRejected, models.StatusPending, true},
		{"published archives", models.StatusPublished, models.StatusArchived, true},
		{"draft archives", models.StatusDraft, models.StatusArchived, true},
		{"draft cannot publish directly", models.StatusDraft, models.StatusPublished, false},
		{"published cannot go back to pending", models.StatusPublished, models.StatusPending, false},
		{"archived is terminal", models.StatusArchived, models.StatusPending, false},
		{"self transition is illegal", models.StatusPending, models.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCheckTransition_RejectsUnknownStatus(t *testing.T) {
	err := CheckTransition(models.StatusPending, models.ListingStatus("live"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIllegalTransition, errors.AsStandard(err).Code)
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	next := NextStatuses(models.StatusPending)
	require.NotEmpty(t, next)
	next[0] = models.StatusArchived
	assert.Equal(t, models.StatusPublished, allowedTransitions[models.StatusPending][0])
}

// ==========================
// Engine Tests
// ==========================

func TestEngine_Transition_PublishNotifiesAndInvalidates(t *testing.T) {
	store := &fakeStore{listing: pendingListing()}
	notifier := &fakeNotifier{}
	counts := &fakeInvalidator{}
	engine := NewEngine(store, notifier, counts, logger.NewTestLogger(t))

	updated, err := engine.Transition(context.Background(), "listing-1", models.StatusPublished, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPublished, updated.Status)
	assert.Equal(t, []models.ListingStatus{models.StatusPending, models.StatusPublished}, store.updated)
	assert.Equal(t, []models.ListingStatus{models.StatusPublished}, notifier.sent)
	assert.Equal(t, 1, counts.calls)
}

func TestEngine_Transition_ArchiveDoesNotNotify(t *testing.T) {
	store := &fakeStore{listing: pendingListing()}
	notifier := &fakeNotifier{}
	engine := NewEngine(store, notifier, &fakeInvalidator{}, logger.NewTestLogger(t))

	_, err := engine.Transition(context.Background(), "listing-1", models.StatusArchived, "")
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestEngine_Transition_IllegalMoveLeavesStorageUntouched(t *testing.T) {
	store := &fakeStore{listing: pendingListing()}
	engine := NewEngine(store, nil, nil, logger.NewTestLogger(t))

	_, err := engine.Transition(context.Background(), "listing-1", models.StatusPending, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIllegalTransition, errors.AsStandard(err).Code)
	assert.Nil(t, store.updated)
}

func TestEngine_Transition_ConcurrentMoveSurfacesConflict(t *testing.T) {
	store := &fakeStore{
		listing:   pendingListing(),
		updateErr: errors.NewStatusConflictError("listing-1", "pending"),
	}
	engine := NewEngine(store, &fakeNotifier{}, nil, logger.NewTestLogger(t))

	_, err := engine.Transition(context.Background(), "listing-1", models.StatusPublished, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStatusConflict, errors.AsStandard(err).Code)
}

func TestEngine_Transition_MissingListing(t *testing.T) {
	store := &fakeStore{getErr: errors.NewListingNotFoundError("nope")}
	engine := NewEngine(store, nil, nil, logger.NewTestLogger(t))

	_, err := engine.Transition(context.Background(), "nope", models.StatusPublished, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeListingNotFound, errors.AsStandard(err).Code)
}

func TestEngine_Transition_NotifierFailureDoesNotRollBack(t *testing.T) {
	store := &fakeStore{listing: pendingListing()}
	notifier := &fakeNotifier{err: errors.NewNotificationError(assert.AnError)}
	engine := NewEngine(store, notifier, nil, logger.NewTestLogger(t))

	updated, err := engine.Transition(context.Background(), "listing-1", models.StatusRejected, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
}
