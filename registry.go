package annotext

import (
	"log/slog"
	"sync"
)

// DefaultRegistryLimit is the default attachment eviction limit.
const DefaultRegistryLimit = 200

// RegisteredAttachment pairs an attachment with the text location it
// is embedded at. Entries are owned by the registry until evicted or
// removed; identity, not value equality, resolves the location index
// back to an entry.
type RegisteredAttachment struct {
	Location   int
	Attachment *Attachment
}

// Registry is a bounded, location-indexed, insertion-ordered store of
// inline attachments with first-in-first-out eviction.
//
// Registry is safe for concurrent use: it may be populated from a
// different goroutine than it is drawn from. All operations are
// bounded list work and never block on anything but the lock.
type Registry struct {
	mu      sync.Mutex
	entries []*RegisteredAttachment
	index   map[int]*RegisteredAttachment
	limit   int
	log     *slog.Logger
}

// NewRegistry creates a registry with the default limit. A nil logger
// falls back to the package logger.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		index: make(map[int]*RegisteredAttachment),
		limit: DefaultRegistryLimit,
		log:   pickLogger(log),
	}
}

// Add registers the attachment at the given location. If the registry
// is full the oldest-inserted entry is evicted first; an entry already
// indexed at the same location is overwritten in the index (the list
// keeps both until the older one is evicted or removed).
func (g *Registry) Add(a *Attachment, location int) {
	if a == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for len(g.entries) >= g.limit {
		g.evictOldestLocked()
	}

	e := &RegisteredAttachment{Location: location, Attachment: a}
	g.entries = append(g.entries, e)
	g.index[location] = e
}

// evictOldestLocked removes the oldest-inserted entry from the list
// and scrubs every index slot pointing to it by identity. The eviction
// is silent toward the owning text; it is surfaced at Debug only.
func (g *Registry) evictOldestLocked() {
	if len(g.entries) == 0 {
		return
	}
	oldest := g.entries[0]
	g.entries = g.entries[1:]
	for loc, e := range g.index {
		if e == oldest {
			delete(g.index, loc)
		}
	}
	g.log.Debug("annotext: attachment evicted", "location", oldest.Location)
}

// Remove removes the entry indexed at the location from both the list
// and the index. It is a no-op if nothing is indexed there.
func (g *Registry) Remove(location int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.index[location]
	if !ok {
		return
	}
	delete(g.index, location)
	for i, cur := range g.entries {
		if cur == e {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			break
		}
	}
}

// Get returns the attachment indexed at the location, or nil.
func (g *Registry) Get(location int) *Attachment {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.index[location]; ok {
		return e.Attachment
	}
	return nil
}

// All returns a snapshot of the entries in insertion order.
func (g *Registry) All() []*RegisteredAttachment {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*RegisteredAttachment, len(g.entries))
	copy(out, g.entries)
	return out
}

// Clear empties the registry.
func (g *Registry) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries = nil
	g.index = make(map[int]*RegisteredAttachment)
}

// Len returns the number of registered entries.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Limit returns the current eviction limit.
func (g *Registry) Limit() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limit
}

// SetLimit sets the eviction limit, clamped to at least 1. Entries
// already over the new limit are not evicted until the next Add.
func (g *Registry) SetLimit(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 1 {
		n = 1
	}
	g.limit = n
}
