package control

import (
	"context"
	"net"
	"time"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/ifacekind"
	"github.com/lsrouted/lsrouted/internal/logx"
	"github.com/lsrouted/lsrouted/internal/wire"
)

// helloLoop broadcasts a HELLO on link every helloInterval. It sends one
// immediately on start so adjacency forms without waiting a full interval.
func (e *Engine) helloLoop(ctx context.Context, link ifacekind.Interface) {
	ticker := time.NewTicker(e.helloInterval)
	defer ticker.Stop()

	e.sendHello(link)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.sendHello(link)
		}
	}
}

func (e *Engine) sendHello(link ifacekind.Interface) {
	known := e.d.DetectedNeighborIDs()
	pkt := wire.NewHello(e.d.Self(), nowSeconds(), link.LocalIP.String(), known)

	data, err := wire.Encode(pkt)
	if err != nil {
		logx.Warnf("failed to encode HELLO on %s: %v", link.Name, err)
		return
	}

	dst := &net.UDPAddr{IP: net.IP(link.BroadcastIP.AsSlice()), Port: config.Port}
	if err := e.sock.SendTo(dst, data); err != nil {
		logx.Warnf("failed to send HELLO on %s: %v", link.Name, err)
	}
}

// lsaEmitterLoop periodically rebuilds and unicasts the local LSA to
// every recognized neighbor. It is started lazily, at most once, by the
// first confirmed adjacency (daemon.StartLSAEmitterOnce).
func (e *Engine) lsaEmitterLoop() {
	ticker := time.NewTicker(e.lsaInterval)
	defer ticker.Stop()

	e.emitLSA()

	for range ticker.C {
		e.emitLSA()
	}
}

func (e *Engine) emitLSA() {
	pkt := e.d.BuildLocalLSA(nowSeconds())
	e.d.InstallRoutes()

	data, err := wire.Encode(pkt)
	if err != nil {
		logx.Warnf("failed to encode local LSA: %v", err)
		return
	}

	for id, ip := range e.d.RecognizedNeighbors() {
		addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: config.Port}
		if err := e.sock.SendTo(addr, data); err != nil {
			logx.Warnf("failed to send LSA to %s (%s): %v", id, ip, err)
		}
	}
}
