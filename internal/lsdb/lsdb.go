// Package lsdb implements the link-state database: a map from router-id
// to its latest known advertisement, replaced in-place on
// strictly-increasing sequence numbers.
package lsdb

import (
	"net/netip"

	"github.com/lsrouted/lsrouted/internal/config"
)

// Entry is one router's latest link-state advertisement.
type Entry struct {
	SequenceNumber int64
	Timestamp      float64
	Addresses      []netip.Prefix
	Links          map[config.RouterID]int32
}

// placeholder is the zero-knowledge entry created for a router-id first
// observed only as someone else's neighbor.
func placeholder() Entry {
	return Entry{
		SequenceNumber: -1,
		Addresses:      nil,
		Links:          map[config.RouterID]int32{},
	}
}

// Database is the process-singleton LSDB. Callers outside this package
// must serialize access with their own lock; locking is centralized in
// the daemon rather than in this type.
type Database struct {
	entries map[config.RouterID]Entry
}

// New returns an empty database.
func New() *Database {
	return &Database{entries: make(map[config.RouterID]Entry)}
}

// Update accepts an LSA iff the stored entry for id is absent or its
// stored sequence number is strictly less than seqNum. On acceptance, it
// replaces the stored entry and ensures a placeholder exists for every
// router-id mentioned in links. Returns true iff state changed.
func (d *Database) Update(id config.RouterID, seqNum int64, timestamp float64, addresses []netip.Prefix, links map[config.RouterID]int32) bool {
	existing, exists := d.entries[id]
	if exists && existing.SequenceNumber >= seqNum {
		return false
	}

	linksCopy := make(map[config.RouterID]int32, len(links))
	for neighbor, cost := range links {
		linksCopy[neighbor] = cost
	}

	d.entries[id] = Entry{
		SequenceNumber: seqNum,
		Timestamp:      timestamp,
		Addresses:      append([]netip.Prefix(nil), addresses...),
		Links:          linksCopy,
	}

	for neighbor := range links {
		if _, ok := d.entries[neighbor]; !ok {
			d.entries[neighbor] = placeholder()
		}
	}

	return true
}

// Get returns the stored entry for id, if any.
func (d *Database) Get(id config.RouterID) (Entry, bool) {
	e, ok := d.entries[id]
	return e, ok
}

// Addresses returns the prefixes id advertises.
func (d *Database) Addresses(id config.RouterID) []netip.Prefix {
	return d.entries[id].Addresses
}

// Links returns id's outgoing neighbor->cost map.
func (d *Database) Links(id config.RouterID) map[config.RouterID]int32 {
	return d.entries[id].Links
}

// Keys returns every router-id known to the database, including
// placeholders.
func (d *Database) Keys() []config.RouterID {
	keys := make([]config.RouterID, 0, len(d.entries))
	for id := range d.entries {
		keys = append(keys, id)
	}
	return keys
}

// Snapshot returns a defensive copy of the whole database, for use by the
// SPF engine outside the daemon's lock.
func (d *Database) Snapshot() map[config.RouterID]Entry {
	out := make(map[config.RouterID]Entry, len(d.entries))
	for id, e := range d.entries {
		linksCopy := make(map[config.RouterID]int32, len(e.Links))
		for n, c := range e.Links {
			linksCopy[n] = c
		}
		out[id] = Entry{
			SequenceNumber: e.SequenceNumber,
			Timestamp:      e.Timestamp,
			Addresses:      append([]netip.Prefix(nil), e.Addresses...),
			Links:          linksCopy,
		}
	}
	return out
}
