// Package session manages the two session families of the system under
// one Manager.
//
// Admin sessions are TTL-bound. The durable admin_sessions table is
// authoritative; an in-process cache fronts it for validation. The expiry
// is fixed at login and never slides. Validation follows a read-through
// pattern: cache hit and unexpired wins, cache hit and expired evicts,
// cache miss falls back to the table and repopulates. Whatever the cache
// says, the durable row is always the tiebreaker.
//
// General sessions are unbounded journal records in a JSON document:
// appended at login with an environment snapshot, closed in place at
// logout, never deleted.
package session
