// Package daemon is the per-node routing daemon context: it owns the
// link-state database, neighbor table, and derived routing table behind a
// single mutex, avoiding the lock-ordering hazards of splitting that state
// across cooperating objects.
package daemon

import (
	"net/netip"
	"sync"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/ifacekind"
	"github.com/lsrouted/lsrouted/internal/lsdb"
	"github.com/lsrouted/lsrouted/internal/logx"
	"github.com/lsrouted/lsrouted/internal/neighbor"
	"github.com/lsrouted/lsrouted/internal/notify"
	"github.com/lsrouted/lsrouted/internal/routeinstall"
	"github.com/lsrouted/lsrouted/internal/routetable"
	"github.com/lsrouted/lsrouted/internal/spf"
	"github.com/lsrouted/lsrouted/internal/wire"
)

// Daemon is the process-singleton owner of all mutable routing state.
type Daemon struct {
	self      config.RouterID
	oracle    *config.CostOracle
	installer routeinstall.Installer

	localPrefixes []netip.Prefix
	interRouter   []ifacekind.Interface

	mu        sync.Mutex
	lsdb      *lsdb.Database
	neighbors *neighbor.Table
	nextHop   routetable.Table
	seqNum    int64

	lsaEmitterStart sync.Once
	routeChanges    *notify.Observable[routetable.Table]
}

// New constructs a Daemon for self, with the given interface inventory,
// cost oracle, and kernel route installer.
func New(self config.RouterID, interfaces []ifacekind.Interface, oracle *config.CostOracle, installer routeinstall.Installer) *Daemon {
	d := &Daemon{
		self:         self,
		oracle:       oracle,
		installer:    installer,
		lsdb:         lsdb.New(),
		neighbors:    neighbor.New(),
		routeChanges: notify.New[routetable.Table](),
	}

	for _, iface := range interfaces {
		switch iface.Kind {
		case ifacekind.LocalPrefix:
			d.localPrefixes = append(d.localPrefixes, iface.Prefix)
		case ifacekind.InterRouterLink:
			d.interRouter = append(d.interRouter, iface)
		}
	}

	return d
}

// Self returns the local router-id.
func (d *Daemon) Self() config.RouterID { return d.self }

// InterRouterLinks returns the node's point-to-point links for the HELLO
// emitter to iterate over.
func (d *Daemon) InterRouterLinks() []ifacekind.Interface {
	return d.interRouter
}

// RecognizedIP returns the confirmed adjacency IP for a neighbor.
func (d *Daemon) RecognizedIP(id config.RouterID) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.neighbors.IsRecognized(id)
}

// RecognizedNeighbors returns a snapshot of every currently recognized
// adjacency, for LSA fan-out and flooding.
func (d *Daemon) RecognizedNeighbors() map[config.RouterID]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.neighbors.RecognizedNeighbors()
}

// ProcessHello applies one HELLO packet's effect on neighbor state. It
// returns true once per neighbor: the first time a HELLO from that sender
// lists the local router, making the sender newly recognized. Callers use
// that signal to start the LSA emitter, which StartLSAEmitterOnce keeps
// to a single start via sync.Once however many neighbors fire it.
func (d *Daemon) ProcessHello(pkt wire.Hello, sourceIP string) (newlyAdjacent bool) {
	if pkt.RouterID == d.self {
		return false
	}

	cost, ok := d.oracle.Cost(pkt.RouterID)
	if !ok {
		logx.Warnf("no configured cost for neighbor %s, dropping HELLO", pkt.RouterID)
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.neighbors.SetDetectedCost(pkt.RouterID, cost)

	_, alreadyRecognized := d.neighbors.IsRecognized(pkt.RouterID)
	if alreadyRecognized {
		return false
	}

	selfListed := false
	for _, n := range pkt.KnownNeighbors {
		if n == d.self {
			selfListed = true
			break
		}
	}
	if !selfListed {
		return false
	}

	d.neighbors.Recognize(pkt.RouterID, sourceIP)
	return true
}

// StartLSAEmitterOnce runs start exactly once across the Daemon's
// lifetime, no matter how many times it is called. Used so multiple
// concurrent HELLO processors racing to report the first adjacency don't
// start the LSA emitter twice.
func (d *Daemon) StartLSAEmitterOnce(start func()) {
	d.lsaEmitterStart.Do(start)
}

// ProcessLSA applies one LSA packet's effect on the link-state database
// (flooding is the caller's responsibility, since it needs the source
// address for split-horizon exclusion, which this package does not
// track). Returns true iff the database changed.
func (d *Daemon) ProcessLSA(pkt wire.LSA) bool {
	if pkt.RouterID == d.self {
		return false
	}

	addresses := make([]netip.Prefix, 0, len(pkt.Addresses))
	for _, raw := range pkt.Addresses {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			logx.Warnf("dropping malformed prefix %q in LSA from %s: %v", raw, pkt.RouterID, err)
			continue
		}
		addresses = append(addresses, prefix)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	accepted := d.lsdb.Update(pkt.RouterID, pkt.SequenceNumber, pkt.Timestamp, addresses, pkt.Links)
	if accepted {
		d.recomputeRoutingLocked()
	}
	return accepted
}

// BuildLocalLSA increments the local sequence counter, injects the local
// router's own LSA into the link-state database (self-injection, so SPF
// runs over a coherent view), recomputes routes, and returns the packet
// to unicast to every recognized neighbor.
func (d *Daemon) BuildLocalLSA(timestamp float64) wire.LSA {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seqNum++

	addresses := make([]string, 0, len(d.localPrefixes))
	for _, p := range d.localPrefixes {
		addresses = append(addresses, p.String())
	}

	links := d.neighbors.DetectedCosts()

	pkt := wire.NewLSA(d.self, timestamp, d.seqNum, addresses, links)

	prefixes := make([]netip.Prefix, len(d.localPrefixes))
	copy(prefixes, d.localPrefixes)

	accepted := d.lsdb.Update(d.self, pkt.SequenceNumber, timestamp, prefixes, links)
	if accepted {
		d.recomputeRoutingLocked()
	}

	return pkt
}

// recomputeRoutingLocked re-runs SPF and next-hop resolution. Must be
// called with d.mu held.
func (d *Daemon) recomputeRoutingLocked() {
	snapshot := d.lsdb.Snapshot()
	result := spf.Run(d.self, snapshot)
	d.nextHop = routetable.Build(d.self, result)

	changed := make(routetable.Table, len(d.nextHop))
	for k, v := range d.nextHop {
		changed[k] = v
	}
	d.routeChanges.Notify(changed)
}

// OnRouteChange subscribes observer to every future route recomputation.
// Called from outside the lock; the callback itself runs on whatever
// goroutine triggered the recomputation (ProcessLSA or BuildLocalLSA), so
// it must not block or re-enter the Daemon.
func (d *Daemon) OnRouteChange(observer notify.ObserverFunc[routetable.Table]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routeChanges.Subscribe(observer)
}

// RouteBatch returns an immutable snapshot of the current next-hop table
// plus the accessors the route installer needs, so installation can run
// outside the lock.
func (d *Daemon) RouteBatch() routeinstall.Batch {
	d.mu.Lock()
	defer d.mu.Unlock()

	nextHop := make(routetable.Table, len(d.nextHop))
	for k, v := range d.nextHop {
		nextHop[k] = v
	}

	addresses := make(map[config.RouterID][]netip.Prefix, len(nextHop))
	for dest := range nextHop {
		addresses[dest] = append([]netip.Prefix(nil), d.lsdb.Addresses(dest)...)
	}

	recognized := d.neighbors.RecognizedNeighbors()

	return routeinstall.Batch{
		Self:    d.self,
		NextHop: nextHop,
		Addresses: func(id config.RouterID) []netip.Prefix {
			return addresses[id]
		},
		Recognized: func(id config.RouterID) (string, bool) {
			ip, ok := recognized[id]
			return ip, ok
		},
	}
}

// InstallRoutes builds the current route batch and hands it to the
// installer.
func (d *Daemon) InstallRoutes() {
	routeinstall.Install(d.installer, d.RouteBatch())
}

// LSDBEntry exposes a read-only LSDB lookup, used by the debug console.
func (d *Daemon) LSDBEntry(id config.RouterID) (lsdb.Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lsdb.Get(id)
}

// LSDBKeys returns every known router-id, for the debug console.
func (d *Daemon) LSDBKeys() []config.RouterID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lsdb.Keys()
}

// NextHop returns the current first hop for dest, for the debug console
// and for outbound-packet routing by any future application layer.
func (d *Daemon) NextHop(dest config.RouterID) (config.RouterID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	hop, ok := d.nextHop[dest]
	return hop, ok
}

// DetectedNeighborIDs returns the sorted list of detected neighbor ids,
// the known_neighbors payload of an outgoing HELLO. It must reflect every
// neighbor heard directly, not only confirmed adjacencies, so a peer that
// has not yet recognized us can still see itself listed.
func (d *Daemon) DetectedNeighborIDs() []config.RouterID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.neighbors.DetectedNeighborIDs()
}

// NeighborIDForIP reverse-looks-up which recognized neighbor an inbound
// packet arrived from, for the control plane's split-horizon flood logic.
func (d *Daemon) NeighborIDForIP(ip string) (config.RouterID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.neighbors.RouterIDForIP(ip)
}

// DetectedCost exposes the detected cost to neighbor.
func (d *Daemon) DetectedCost(id config.RouterID) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.neighbors.DetectedCost(id)
}
