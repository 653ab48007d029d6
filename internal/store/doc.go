// Package store owns the canonical local collection: a per-game
// multiset of owned card instances under tiered admission control,
// persisted to a local SQLite snapshot and pushed to the remote sync
// service.
//
// Local state is always authoritative. A sync push never mutates the
// collection, and a failed push leaves it untouched; the worst case is
// a collection that has not reached the server yet.
package store
