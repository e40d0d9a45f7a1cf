package session

import "sync"

// Cache is the in-process shadow of the admin_sessions table. It only
// accelerates validation; it is never consulted as a source of truth on
// its own. Races between validation and logout are tolerated — the worst
// case is one redundant durable lookup, never a wrong decision, because
// the durable row always decides.
type Cache struct {
	mu       sync.RWMutex
	sessions map[string]AdminSession
}

// NewCache creates an empty session cache.
func NewCache() *Cache {
	return &Cache{sessions: make(map[string]AdminSession)}
}

// Get returns the cached session for id, if any.
func (c *Cache) Get(id string) (AdminSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

// Put stores a session in the cache.
func (c *Cache) Put(s AdminSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

// Delete evicts a session. Reports whether the id was present.
func (c *Cache) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[id]
	delete(c.sessions, id)
	return ok
}

// Len returns the number of cached sessions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
