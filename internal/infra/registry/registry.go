// Package registry implements the in-memory active-timer table.
//
// The registry is the single source of truth for "this session is currently
// running, and since when". It is deliberately not persisted: a process
// restart loses all entries, and the matching unfinished session rows become
// orphans reconciled by the sweep command (see internal/cli).
package registry

import (
	"sync"
	"time"

	"github.com/studyquest/studyquest/internal/domain"
)

// Entry marks one running session.
type Entry struct {
	SessionID   string
	CharacterID int64
	StartedAt   time.Time
}

// Registry is a mutex-guarded table keyed by session id. It is an explicitly
// owned value injected into the progression service, not a hidden global.
// Operations are in-memory only and never suspend.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Start inserts a new entry. It fails with ErrDuplicateSession if the session
// id is already registered; correct id generation should make that impossible,
// but the contract is enforced regardless.
func (r *Registry) Start(sessionID string, characterID int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[sessionID]; exists {
		return domain.ErrDuplicateSession
	}
	r.entries[sessionID] = Entry{
		SessionID:   sessionID,
		CharacterID: characterID,
		StartedAt:   now,
	}
	return nil
}

// Lookup returns the entry for a session without removing it.
func (r *Registry) Lookup(sessionID string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return Entry{}, domain.ErrSessionNotFound
	}
	return e, nil
}

// Claim atomically removes and returns the entry for a session. This is the
// stop-side primitive: of two concurrent stops for the same session, exactly
// one wins the claim and the other gets ErrSessionNotFound, so rewards are
// never applied twice. A claimed entry must be either committed (dropped for
// good) or handed back via Restore after a failed persist.
func (r *Registry) Claim(sessionID string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return Entry{}, domain.ErrSessionNotFound
	}
	delete(r.entries, sessionID)
	return e, nil
}

// Restore re-inserts a claimed entry so a failed stop can be retried later.
func (r *Registry) Restore(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.SessionID] = e
}

// Active returns the number of running sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Sessions returns a snapshot of all entries. Order is unspecified.
func (r *Registry) Sessions() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}
