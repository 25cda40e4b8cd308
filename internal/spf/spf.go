// Package spf runs Dijkstra's shortest-path-first computation over an LSDB
// snapshot, using a container/heap priority queue over weighted directed
// edges (LSDB entry u's links give (v, cost) pairs).
package spf

import (
	"container/heap"
	"math"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/lsdb"
)

// Result is the output of a single SPF run from the local router.
type Result struct {
	Dist        map[config.RouterID]int64
	Predecessor map[config.RouterID]config.RouterID
	hasPred     map[config.RouterID]bool
}

// Run computes shortest paths from self over the given LSDB snapshot.
// Edge (u,v,cost) exists for every (v,cost) in snapshot[u].Links; edges
// are directed, since symmetry between two routers' costs is not
// assumed. Ties are broken by ascending RouterID to keep the result
// deterministic for testing.
func Run(self config.RouterID, snapshot map[config.RouterID]lsdb.Entry) Result {
	dist := make(map[config.RouterID]int64, len(snapshot))
	pred := make(map[config.RouterID]config.RouterID, len(snapshot))
	hasPred := make(map[config.RouterID]bool, len(snapshot))

	nodes := make(map[config.RouterID]*node, len(snapshot))
	for id := range snapshot {
		dist[id] = math.MaxInt64
		nodes[id] = &node{id: id, dist: math.MaxInt64}
	}
	if _, ok := nodes[self]; !ok {
		nodes[self] = &node{id: self, dist: math.MaxInt64}
		dist[self] = math.MaxInt64
	}

	dist[self] = 0
	nodes[self].dist = 0

	pq := make(priorityQueue, 0, len(nodes))
	for _, n := range nodes {
		n.index = len(pq)
		pq = append(pq, n)
	}
	heap.Init(&pq)

	visited := make(map[config.RouterID]bool, len(nodes))

	for pq.Len() > 0 {
		u := heap.Pop(&pq).(*node)
		if visited[u.id] {
			continue
		}
		visited[u.id] = true

		if u.dist == math.MaxInt64 {
			continue // remaining nodes are unreachable
		}

		entry, ok := snapshot[u.id]
		if !ok {
			continue
		}

		for v, cost := range entry.Links {
			if visited[v] {
				continue
			}
			vNode, ok := nodes[v]
			if !ok {
				continue // neighbor not present in this snapshot at all
			}

			candidate := u.dist + int64(cost)
			if candidate < vNode.dist {
				vNode.dist = candidate
				dist[v] = candidate
				pred[v] = u.id
				hasPred[v] = true
				heap.Fix(&pq, vNode.index)
			}
		}
	}

	return Result{Dist: dist, Predecessor: pred, hasPred: hasPred}
}

// HasPredecessor reports whether id has a recorded predecessor in the
// shortest-path tree (false for self and unreachable destinations).
func (r Result) HasPredecessor(id config.RouterID) bool {
	return r.hasPred[id]
}

type node struct {
	id    config.RouterID
	dist  int64
	index int
}

type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id // deterministic tie-break
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
