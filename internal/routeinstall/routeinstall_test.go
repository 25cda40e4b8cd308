package routeinstall

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/lsrouted/lsrouted/internal/config"
)

type replaceCall struct {
	prefix  netip.Prefix
	gateway netip.Addr
}

type fakeInstaller struct {
	calls   []replaceCall
	failFor netip.Prefix
}

func (f *fakeInstaller) Replace(prefix netip.Prefix, gateway netip.Addr) error {
	if prefix == f.failFor {
		return errors.New("simulated failure")
	}
	f.calls = append(f.calls, replaceCall{prefix: prefix, gateway: gateway})
	return nil
}

func TestInstallSkipsDestinationsWithoutRecognizedFirstHop(t *testing.T) {
	installer := &fakeInstaller{}
	batch := Batch{
		Self:    "self",
		NextHop: map[config.RouterID]config.RouterID{"C": "A"},
		Addresses: func(config.RouterID) []netip.Prefix {
			return []netip.Prefix{netip.MustParsePrefix("10.0.2.0/24")}
		},
		Recognized: func(config.RouterID) (string, bool) {
			return "", false // A is not yet a recognized adjacency
		},
	}

	Install(installer, batch)

	if len(installer.calls) != 0 {
		t.Errorf("expected no Replace calls, got %v", installer.calls)
	}
}

func TestInstallIssuesOneReplacePerAdvertisedPrefix(t *testing.T) {
	installer := &fakeInstaller{}
	prefixes := []netip.Prefix{
		netip.MustParsePrefix("10.0.2.0/24"),
		netip.MustParsePrefix("10.0.3.0/24"),
	}
	batch := Batch{
		Self:    "self",
		NextHop: map[config.RouterID]config.RouterID{"C": "A"},
		Addresses: func(config.RouterID) []netip.Prefix {
			return prefixes
		},
		Recognized: func(config.RouterID) (string, bool) {
			return "10.0.0.2", true
		},
	}

	Install(installer, batch)

	if len(installer.calls) != 2 {
		t.Fatalf("expected 2 Replace calls, got %d", len(installer.calls))
	}
	wantGateway := netip.MustParseAddr("10.0.0.2")
	for _, call := range installer.calls {
		if call.gateway != wantGateway {
			t.Errorf("gateway = %s, want %s", call.gateway, wantGateway)
		}
	}
}

func TestInstallContinuesPastPerPrefixFailure(t *testing.T) {
	installer := &fakeInstaller{failFor: netip.MustParsePrefix("10.0.2.0/24")}
	prefixes := []netip.Prefix{
		netip.MustParsePrefix("10.0.2.0/24"),
		netip.MustParsePrefix("10.0.3.0/24"),
	}
	batch := Batch{
		Self:    "self",
		NextHop: map[config.RouterID]config.RouterID{"C": "A"},
		Addresses: func(config.RouterID) []netip.Prefix {
			return prefixes
		},
		Recognized: func(config.RouterID) (string, bool) {
			return "10.0.0.2", true
		},
	}

	Install(installer, batch)

	if len(installer.calls) != 1 {
		t.Fatalf("expected the non-failing prefix to still be installed, got %d calls", len(installer.calls))
	}
	if installer.calls[0].prefix != prefixes[1] {
		t.Errorf("installed prefix = %s, want %s", installer.calls[0].prefix, prefixes[1])
	}
}

func TestInstallSkipsInvalidGatewayIP(t *testing.T) {
	installer := &fakeInstaller{}
	batch := Batch{
		Self:    "self",
		NextHop: map[config.RouterID]config.RouterID{"C": "A"},
		Addresses: func(config.RouterID) []netip.Prefix {
			return []netip.Prefix{netip.MustParsePrefix("10.0.2.0/24")}
		},
		Recognized: func(config.RouterID) (string, bool) {
			return "not-an-ip", true
		},
	}

	Install(installer, batch)

	if len(installer.calls) != 0 {
		t.Errorf("expected no Replace calls for an invalid gateway IP, got %v", installer.calls)
	}
}
