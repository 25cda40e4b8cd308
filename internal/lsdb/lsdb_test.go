package lsdb

import (
	"net/netip"
	"testing"

	"github.com/lsrouted/lsrouted/internal/config"
)

func TestUpdateAcceptsStrictlyNewerSequenceNumbers(t *testing.T) {
	tests := []struct {
		name       string
		existing   *Entry
		seqNum     int64
		wantAccept bool
	}{
		{name: "no prior entry", existing: nil, seqNum: 1, wantAccept: true},
		{name: "newer sequence accepted", existing: &Entry{SequenceNumber: 3}, seqNum: 4, wantAccept: true},
		{name: "equal sequence rejected", existing: &Entry{SequenceNumber: 3}, seqNum: 3, wantAccept: false},
		{name: "older sequence rejected", existing: &Entry{SequenceNumber: 3}, seqNum: 2, wantAccept: false},
		{name: "placeholder always accepted", existing: &Entry{SequenceNumber: -1}, seqNum: 0, wantAccept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := New()
			id := config.RouterID("r1")
			if tt.existing != nil {
				db.entries[id] = *tt.existing
			}

			got := db.Update(id, tt.seqNum, 0, nil, nil)
			if got != tt.wantAccept {
				t.Errorf("Update() = %v, want %v", got, tt.wantAccept)
			}
			if got {
				entry, ok := db.Get(id)
				if !ok || entry.SequenceNumber != tt.seqNum {
					t.Errorf("entry not stored with sequence %d: %+v", tt.seqNum, entry)
				}
			}
		})
	}
}

func TestUpdateCreatesPlaceholdersForMentionedNeighbors(t *testing.T) {
	db := New()
	self := config.RouterID("r1")
	links := map[config.RouterID]int32{"r2": 1, "r3": 4}

	if !db.Update(self, 1, 0, nil, links) {
		t.Fatal("expected first update to be accepted")
	}

	for _, id := range []config.RouterID{"r2", "r3"} {
		entry, ok := db.Get(id)
		if !ok {
			t.Fatalf("expected placeholder entry for %s", id)
		}
		if entry.SequenceNumber != -1 {
			t.Errorf("placeholder for %s has sequence %d, want -1", id, entry.SequenceNumber)
		}
	}

	// A placeholder must never block a subsequent real update for that id.
	if !db.Update("r2", 0, 0, nil, nil) {
		t.Error("real update for a placeholder-only entry must be accepted")
	}
}

func TestUpdateDoesNotOverwritePlaceholderOfRealEntry(t *testing.T) {
	db := New()
	db.Update("r2", 5, 0, nil, nil)

	// r1's LSA re-mentions r2 as a neighbor; this must not clobber r2's
	// already-known real entry with a placeholder.
	db.Update("r1", 1, 0, nil, map[config.RouterID]int32{"r2": 1})

	entry, ok := db.Get("r2")
	if !ok || entry.SequenceNumber != 5 {
		t.Errorf("r2 entry was overwritten by placeholder creation: %+v", entry)
	}
}

func TestSnapshotIsIndependentOfLaterMutation(t *testing.T) {
	db := New()
	db.Update("r1", 1, 0, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/24")}, map[config.RouterID]int32{"r2": 2})

	snap := db.Snapshot()
	db.Update("r1", 2, 0, nil, map[config.RouterID]int32{"r3": 7})

	if snap["r1"].SequenceNumber != 1 {
		t.Errorf("snapshot mutated after later Update: got seq %d, want 1", snap["r1"].SequenceNumber)
	}
	if _, ok := snap["r1"].Links["r3"]; ok {
		t.Error("snapshot link map mutated after later Update")
	}
}

func TestKeysIncludesEveryMentionedRouter(t *testing.T) {
	db := New()
	db.Update("r1", 1, 0, nil, map[config.RouterID]int32{"r2": 1})

	keys := db.Keys()
	found := map[config.RouterID]bool{}
	for _, k := range keys {
		found[k] = true
	}
	if !found["r1"] || !found["r2"] {
		t.Errorf("Keys() = %v, want to include r1 and r2", keys)
	}
}
