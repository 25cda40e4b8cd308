// Package ifacekind enumerates the node's network interfaces and classifies
// each as an inter-router link or a local-host subnet.
package ifacekind

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// Kind distinguishes the two interface variants.
type Kind int

const (
	// InterRouterLink participates in the control-plane protocol.
	InterRouterLink Kind = iota
	// LocalPrefix is an advertised, not-used-for-discovery destination.
	LocalPrefix
)

// Interface is one entry of the node's interface inventory.
type Interface struct {
	Kind Kind
	Name string

	// Populated for InterRouterLink. The per-neighbor cost is not known at
	// discovery time — it arrives in each neighbor's HELLO and is resolved
	// against config.CostOracle by the daemon, not stored here.
	LocalIP     netip.Addr
	BroadcastIP netip.Addr

	// Populated for LocalPrefix.
	Prefix netip.Prefix
}

// localHostPrefixByte is the first octet of the block reserved for
// local-host subnets ("192.").
const localHostPrefixByte = "192."

// interRouterNamePrefix is the kernel interface-naming convention used for
// point-to-point links between routers.
const interRouterNamePrefix = "eth"

// Discover enumerates OS network interfaces and classifies each address
// as an inter-router link or a local-host prefix; per-neighbor costs are
// resolved later, per-HELLO, against config.CostOracle.
func Discover() ([]Interface, error) {
	osIfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w", err)
	}

	var result []Interface

	for _, iface := range osIfaces {
		if !strings.HasPrefix(iface.Name, interRouterNamePrefix) {
			continue
		}
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}

			if strings.HasPrefix(ip4.String(), localHostPrefixByte) {
				result = append(result, localPrefixEntry(iface.Name, ip4))
				continue
			}

			entry, ok := interRouterEntry(iface.Name, ip4, ipNet)
			if !ok {
				continue
			}
			result = append(result, entry)
		}
	}

	return result, nil
}

func localPrefixEntry(name string, ip4 net.IP) Interface {
	network := net.IPNet{IP: ip4.Mask(net.CIDRMask(24, 32)), Mask: net.CIDRMask(24, 32)}
	prefix, _ := netip.AddrFromSlice(network.IP)
	return Interface{
		Kind:   LocalPrefix,
		Name:   name,
		Prefix: netip.PrefixFrom(prefix.Unmap(), 24),
	}
}

func interRouterEntry(name string, ip4 net.IP, ipNet *net.IPNet) (Interface, bool) {
	localAddr, ok := netip.AddrFromSlice(ip4)
	if !ok {
		return Interface{}, false
	}

	broadcast := broadcastAddr(ip4, ipNet.Mask)
	broadcastAddr, ok := netip.AddrFromSlice(broadcast)
	if !ok {
		return Interface{}, false
	}

	return Interface{
		Kind:        InterRouterLink,
		Name:        name,
		LocalIP:     localAddr.Unmap(),
		BroadcastIP: broadcastAddr.Unmap(),
	}, true
}

func broadcastAddr(ip net.IP, mask net.IPMask) net.IP {
	bcast := make(net.IP, len(ip))
	for i := range ip {
		bcast[i] = ip[i] | ^mask[i]
	}
	return bcast
}
