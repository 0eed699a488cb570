// internal/filter/session.go
package filter

// Session holds the two copies of the listing filter a hosting view works
// with: the committed copy drives data fetches, the draft copy is edited
// in the filter panel. The draft only becomes visible to consumers on an
// explicit Apply. Sessions are owned by exactly one view and are not safe
// for concurrent use.
type Session struct {
	committed ListingFilter
	draft     ListingFilter
}

// NewSession starts a session with an empty filter, optionally pre-seeded
// with a search string handed in by the caller.
func NewSession(search string) *Session {
	f := New(search)
	return &Session{committed: f, draft: f}
}

// Committed returns the filter currently driving fetches.
func (s *Session) Committed() ListingFilter { return s.committed.clone() }

// Draft returns the filter being edited in the panel.
func (s *Session) Draft() ListingFilter { return s.draft.clone() }

// Edit applies a reducer operation to the draft.
func (s *Session) Edit(op func(ListingFilter) ListingFilter) {
	s.draft = op(s.draft)
}

// Apply commits the draft and returns the new committed filter.
func (s *Session) Apply() ListingFilter {
	s.committed = s.draft.clone()
	return s.Committed()
}

// Discard throws the draft away, reverting the panel to the committed
// filter (the panel was closed without applying).
func (s *Session) Discard() {
	s.draft = s.committed.clone()
}

// Reset drops every constraint from both copies, optionally keeping the
// search string, and returns the new committed filter.
func (s *Session) Reset(preserveSearch bool) ListingFilter {
	s.committed = s.committed.Reset(preserveSearch)
	s.draft = s.committed.clone()
	return s.Committed()
}

// ActiveCount is the badge count for the committed filter.
func (s *Session) ActiveCount() int { return ActiveCount(s.committed) }
