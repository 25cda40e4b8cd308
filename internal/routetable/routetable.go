// Package routetable derives the next-hop table from an SPF result by
// walking each destination's predecessor chain back to the local router,
// the same resolution a link-state router performs while popping nodes
// off its Dijkstra heap.
package routetable

import (
	"math"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/spf"
)

// Table maps destination router-id to the first-hop router-id along the
// shortest path. Destinations with no path, or equal to self, are omitted.
type Table map[config.RouterID]config.RouterID

// Build resolves next hops from an SPF result: for each destination d !=
// self with finite distance, walk predecessors backwards from d until the
// predecessor equals self; that node is the first hop. If the walk
// reaches a destination with no predecessor without touching self, the
// destination is skipped.
func Build(self config.RouterID, result spf.Result) Table {
	table := make(Table)

	for dest, dist := range result.Dist {
		if dest == self || dist == math.MaxInt64 {
			continue
		}

		hop := dest
		for {
			pred, ok := result.Predecessor[hop]
			if !ok {
				// Reached a node with no predecessor without touching self.
				hop = ""
				break
			}
			if pred == self {
				break
			}
			hop = pred
		}

		if hop == "" {
			continue
		}

		table[dest] = hop
	}

	return table
}
