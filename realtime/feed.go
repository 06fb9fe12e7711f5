package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Feed guards view refreshes against stale responses. Each (user, view) pair
// carries a monotonically increasing sequence; a fetch that started before a
// newer one must not apply its result, even if it completes later.
//
// Usage: token := feed.Begin(user, view); fetch; if feed.Commit(user, view,
// token) { apply }.
type Feed struct {
	mu  sync.Mutex
	seq map[feedKey]uint64
}

type feedKey struct {
	user uuid.UUID
	view string
}

// NewFeed creates a new feed guard
func NewFeed() *Feed {
	return &Feed{seq: map[feedKey]uint64{}}
}

// Begin marks the start of a refresh and returns its token. Any earlier
// in-flight refresh for the same (user, view) is superseded immediately.
func (f *Feed) Begin(user uuid.UUID, view string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := feedKey{user, view}
	f.seq[k]++
	return f.seq[k]
}

// Commit reports whether the refresh identified by token is still the latest
// for its (user, view). A false return means the result is stale and must be
// discarded.
func (f *Feed) Commit(user uuid.UUID, view string, token uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.seq[feedKey{user, view}] == token
}

// Forget drops the sequence state for a user, e.g. after sign-out
func (f *Feed) Forget(user uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for k := range f.seq {
		if k.user == user {
			delete(f.seq, k)
		}
	}
}
