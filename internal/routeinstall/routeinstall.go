// Package routeinstall translates a next-hop table into kernel route
// entries. It uses github.com/vishvananda/netlink's RouteReplace, the
// standard Linux netlink route-manipulation library for exactly this
// purpose.
package routeinstall

import (
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/logx"
)

// Installer is the kernel route-table seam. The netlink-backed
// implementation is used in production; tests substitute a fake.
type Installer interface {
	// Replace upserts a route for prefix via gateway (ip route replace
	// <prefix> via <gateway> semantics).
	Replace(prefix netip.Prefix, gateway netip.Addr) error
}

// NetlinkInstaller installs routes into the host kernel's routing table.
type NetlinkInstaller struct{}

func (NetlinkInstaller) Replace(prefix netip.Prefix, gateway netip.Addr) error {
	_, ipNet, err := net.ParseCIDR(prefix.String())
	if err != nil {
		return err
	}

	route := &netlink.Route{
		Dst: ipNet,
		Gw:  net.IP(gateway.AsSlice()),
	}

	return netlink.RouteReplace(route)
}

// Batch is one next-hop table plus the LSDB state needed to resolve
// destination prefixes and recognized-neighbor gateways.
type Batch struct {
	Self       config.RouterID
	NextHop    map[config.RouterID]config.RouterID
	Addresses  func(config.RouterID) []netip.Prefix
	Recognized func(config.RouterID) (string, bool)
}

// Install issues one Replace per advertised prefix of each routable
// destination, skipping destinations whose first hop is not yet a
// recognized adjacency. Per-prefix failures are logged and do not abort
// the batch: this call only needs to have tried every prefix, not
// succeeded on every prefix.
func Install(installer Installer, batch Batch) {
	for dest, firstHop := range batch.NextHop {
		gatewayIP, ok := batch.Recognized(firstHop)
		if !ok {
			logx.Debugf("skipping route to %s: first hop %s is not yet a recognized adjacency", dest, firstHop)
			continue
		}

		gateway, err := netip.ParseAddr(gatewayIP)
		if err != nil {
			logx.Warnf("skipping route to %s: invalid gateway IP %q for first hop %s: %v", dest, gatewayIP, firstHop, err)
			continue
		}

		for _, prefix := range batch.Addresses(dest) {
			if err := installer.Replace(prefix, gateway); err != nil {
				logx.Warnf("failed to install route %s via %s: %v", prefix, gateway, err)
				continue
			}
			logx.Infof("installed route %s via %s (router %s)", prefix, gateway, dest)
		}
	}
}
