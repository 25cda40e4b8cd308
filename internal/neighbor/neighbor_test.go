package neighbor

import "testing"

func TestSetDetectedCostThenDetectedCost(t *testing.T) {
	table := New()

	if _, ok := table.DetectedCost("r2"); ok {
		t.Fatal("expected no detected cost before SetDetectedCost")
	}

	table.SetDetectedCost("r2", 5)

	cost, ok := table.DetectedCost("r2")
	if !ok || cost != 5 {
		t.Errorf("DetectedCost() = (%d, %v), want (5, true)", cost, ok)
	}
}

func TestRecognizeIsIndependentOfDetectedCost(t *testing.T) {
	table := New()

	if _, ok := table.IsRecognized("r2"); ok {
		t.Fatal("expected r2 not recognized before Recognize")
	}

	table.Recognize("r2", "10.0.0.2")

	ip, ok := table.IsRecognized("r2")
	if !ok || ip != "10.0.0.2" {
		t.Errorf("IsRecognized() = (%s, %v), want (10.0.0.2, true)", ip, ok)
	}

	// Recognizing r2 must not fabricate a detected cost for it.
	if _, ok := table.DetectedCost("r2"); ok {
		t.Error("Recognize must not populate detected cost as a side effect")
	}
}

func TestDetectedCostsSnapshotIsIndependent(t *testing.T) {
	table := New()
	table.SetDetectedCost("r2", 3)

	snap := table.DetectedCosts()
	table.SetDetectedCost("r3", 9)

	if _, ok := snap["r3"]; ok {
		t.Error("DetectedCosts snapshot must not observe later mutations")
	}
	if snap["r2"] != 3 {
		t.Errorf("snap[r2] = %d, want 3", snap["r2"])
	}
}

func TestDetectedNeighborIDsIsSorted(t *testing.T) {
	table := New()
	table.SetDetectedCost("r3", 1)
	table.SetDetectedCost("r1", 1)
	table.SetDetectedCost("r2", 1)

	ids := table.DetectedNeighborIDs()
	want := []string{"r1", "r2", "r3"}
	if len(ids) != len(want) {
		t.Fatalf("DetectedNeighborIDs() = %v, want %v", ids, want)
	}
	for i, id := range ids {
		if string(id) != want[i] {
			t.Errorf("DetectedNeighborIDs()[%d] = %s, want %s", i, id, want[i])
		}
	}
}

func TestDetectedNeighborIDsExcludesRecognizedOnlyNeighbors(t *testing.T) {
	table := New()
	table.Recognize("r9", "10.0.0.9")

	if ids := table.DetectedNeighborIDs(); len(ids) != 0 {
		t.Errorf("DetectedNeighborIDs() = %v, want empty: Recognize alone must not mark a neighbor detected", ids)
	}
}

func TestRouterIDForIPReverseLookup(t *testing.T) {
	table := New()
	table.Recognize("r2", "10.0.0.2")

	id, ok := table.RouterIDForIP("10.0.0.2")
	if !ok || id != "r2" {
		t.Errorf("RouterIDForIP() = (%s, %v), want (r2, true)", id, ok)
	}

	if _, ok := table.RouterIDForIP("10.0.0.9"); ok {
		t.Error("RouterIDForIP should report false for an unrecognized IP")
	}
}

func TestRecognizedCount(t *testing.T) {
	table := New()
	if table.RecognizedCount() != 0 {
		t.Fatalf("RecognizedCount() = %d, want 0", table.RecognizedCount())
	}
	table.Recognize("r2", "10.0.0.2")
	table.Recognize("r3", "10.0.0.3")
	if table.RecognizedCount() != 2 {
		t.Errorf("RecognizedCount() = %d, want 2", table.RecognizedCount())
	}
}
