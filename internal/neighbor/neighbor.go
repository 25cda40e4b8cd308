// Package neighbor implements the neighbor tables: detected costs
// (populated on first HELLO) and recognized IPs (populated only once
// bidirectional adjacency is confirmed).
package neighbor

import "github.com/lsrouted/lsrouted/internal/config"

// Table holds the two neighbor maps. Callers must serialize access
// externally (the daemon's single mutex).
type Table struct {
	detectedCost map[config.RouterID]int
	recognizedIP map[config.RouterID]string
}

// New returns an empty neighbor table.
func New() *Table {
	return &Table{
		detectedCost: make(map[config.RouterID]int),
		recognizedIP: make(map[config.RouterID]string),
	}
}

// SetDetectedCost records the cost to reach neighbor over the direct link,
// populated as soon as a HELLO is received from it.
func (t *Table) SetDetectedCost(neighbor config.RouterID, cost int) {
	t.detectedCost[neighbor] = cost
}

// DetectedCost returns the cost to neighbor, if known.
func (t *Table) DetectedCost(neighbor config.RouterID) (int, bool) {
	cost, ok := t.detectedCost[neighbor]
	return cost, ok
}

// DetectedCosts returns a defensive copy of the whole detected-cost map,
// used to build the local LSA's links field.
func (t *Table) DetectedCosts() map[config.RouterID]int32 {
	out := make(map[config.RouterID]int32, len(t.detectedCost))
	for id, cost := range t.detectedCost {
		out[id] = int32(cost)
	}
	return out
}

// Recognize marks neighbor as a confirmed adjacency reachable at ip. Every
// recognized neighbor is expected to also have a detected cost.
func (t *Table) Recognize(neighbor config.RouterID, ip string) {
	t.recognizedIP[neighbor] = ip
}

// IsRecognized reports whether neighbor is a confirmed adjacency, and its
// IP on the shared link if so.
func (t *Table) IsRecognized(neighbor config.RouterID) (string, bool) {
	ip, ok := t.recognizedIP[neighbor]
	return ip, ok
}

// RecognizedNeighbors returns every router-id currently treated as a true
// adjacency, used for LSA unicast fan-out and flooding.
func (t *Table) RecognizedNeighbors() map[config.RouterID]string {
	out := make(map[config.RouterID]string, len(t.recognizedIP))
	for id, ip := range t.recognizedIP {
		out[id] = ip
	}
	return out
}

// RouterIDForIP reverse-looks-up the recognized neighbor reachable at ip,
// used by the control plane to identify which adjacency an inbound LSA
// arrived over for split-horizon exclusion.
func (t *Table) RouterIDForIP(ip string) (config.RouterID, bool) {
	for id, recognizedIP := range t.recognizedIP {
		if recognizedIP == ip {
			return id, true
		}
	}
	return "", false
}

// RecognizedCount reports how many neighbors are currently recognized.
func (t *Table) RecognizedCount() int {
	return len(t.recognizedIP)
}

// DetectedNeighborIDs returns the sorted list of detected neighbor ids,
// the payload of an outgoing HELLO's known_neighbors field. It is built
// from the detected set, not the recognized set: a HELLO must list every
// neighbor heard directly, including ones not yet confirmed bidirectional,
// or two freshly-booted nodes can never see themselves listed by each
// other and adjacency never forms.
func (t *Table) DetectedNeighborIDs() []config.RouterID {
	ids := make([]config.RouterID, 0, len(t.detectedCost))
	for id := range t.detectedCost {
		ids = append(ids, id)
	}
	return sortedRouterIDs(ids)
}

func sortedRouterIDs(ids []config.RouterID) []config.RouterID {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
