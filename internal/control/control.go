// Package control runs the protocol engine: the HELLO emitter, the LSA
// emitter, and the single packet receiver that dispatches inbound
// datagrams by type.
package control

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/daemon"
	"github.com/lsrouted/lsrouted/internal/ifacekind"
	"github.com/lsrouted/lsrouted/internal/logx"
	"github.com/lsrouted/lsrouted/internal/notify"
	"github.com/lsrouted/lsrouted/internal/routetable"
	"github.com/lsrouted/lsrouted/internal/udpsock"
	"github.com/lsrouted/lsrouted/internal/wire"
)

// Engine wires a Daemon to a transport socket and drives the three
// protocol loops: HELLO emission, LSA emission, and inbound dispatch.
type Engine struct {
	d    *daemon.Daemon
	sock udpsock.Socket

	helloInterval time.Duration
	lsaInterval   time.Duration
}

// New returns an Engine ready to Run.
func New(d *daemon.Daemon, sock udpsock.Socket, helloInterval, lsaInterval time.Duration) *Engine {
	e := &Engine{d: d, sock: sock, helloInterval: helloInterval, lsaInterval: lsaInterval}

	d.OnRouteChange(notify.ObserverFunc[routetable.Table](func(table routetable.Table) {
		logx.Infof("routing table recomputed: %d destination(s)", len(table))
	}))

	return e
}

// Run opens the transport, starts the HELLO emitter for every
// inter-router link, and blocks processing inbound datagrams until ctx is
// canceled or the socket closes.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.sock.Open(config.Port); err != nil {
		return err
	}
	defer e.sock.Close()

	var wg sync.WaitGroup
	for _, link := range e.d.InterRouterLinks() {
		wg.Add(1)
		go func(link ifacekind.Interface) {
			defer wg.Done()
			e.helloLoop(ctx, link)
		}(link)
	}

	e.receiveLoop(ctx)
	wg.Wait()
	return nil
}

// receiveLoop is the packet receiver: a single listener dispatching
// datagrams by wire type, bounded to config.PacketHandlerGoroutines
// concurrent handlers via a semaphore.
func (e *Engine) receiveLoop(ctx context.Context) {
	sem := make(chan struct{}, config.PacketHandlerGoroutines)

	for {
		select {
		case <-ctx.Done():
			return
		case dg, ok := <-e.sock.Inbound():
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(dg udpsock.Datagram) {
				defer func() { <-sem }()
				e.dispatch(dg)
			}(dg)
		}
	}
}

func (e *Engine) dispatch(dg udpsock.Datagram) {
	msg, err := wire.Decode(dg.Data)
	if err != nil {
		logx.Warnf("dropping malformed datagram from %s: %v", dg.Src, err)
		return
	}

	switch pkt := msg.(type) {
	case wire.Hello:
		e.handleHello(pkt, dg.Src)
	case wire.LSA:
		e.handleLSA(pkt, dg.Src)
	default:
		logx.Warnf("dropping datagram of unhandled decoded type %T from %s", msg, dg.Src)
	}
}

func (e *Engine) handleHello(pkt wire.Hello, src *net.UDPAddr) {
	logx.Debugf("HELLO from %s (%s)", pkt.RouterID, src.IP)

	newlyAdjacent := e.d.ProcessHello(pkt, src.IP.String())
	if !newlyAdjacent {
		return
	}

	logx.Infof("adjacency established with %s", pkt.RouterID)
	e.d.StartLSAEmitterOnce(func() {
		go e.lsaEmitterLoop()
	})
}

func (e *Engine) handleLSA(pkt wire.LSA, src *net.UDPAddr) {
	logx.Debugf("LSA from %s seq=%d", pkt.RouterID, pkt.SequenceNumber)

	if !e.d.ProcessLSA(pkt) {
		return
	}

	e.d.InstallRoutes()

	excludeID, _ := e.d.NeighborIDForIP(src.IP.String())
	e.flood(pkt, excludeID)
}

// flood unicasts pkt to every recognized neighbor except excludeID, the
// split-horizon rule that keeps an LSA from bouncing straight back to
// whichever neighbor it just arrived from.
func (e *Engine) flood(pkt wire.LSA, excludeID config.RouterID) {
	data, err := wire.Encode(pkt)
	if err != nil {
		logx.Warnf("failed to encode LSA for flooding: %v", err)
		return
	}

	for id, ip := range e.d.RecognizedNeighbors() {
		if id == excludeID {
			continue
		}
		addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: config.Port}
		if err := e.sock.SendTo(addr, data); err != nil {
			logx.Warnf("failed to flood LSA to %s (%s): %v", id, ip, err)
		}
	}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
