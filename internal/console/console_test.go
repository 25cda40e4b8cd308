package console

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/daemon"
	"github.com/lsrouted/lsrouted/internal/logx"
	"github.com/lsrouted/lsrouted/internal/wire"
)

type fakeInstaller struct{}

func (fakeInstaller) Replace(netip.Prefix, netip.Addr) error { return nil }

func TestLogLevelCommandReportsCurrentLevel(t *testing.T) {
	logx.SetLevel(logx.INFO)
	d := daemon.New("self", nil, config.NewCostOracle("self"), fakeInstaller{})

	in := strings.NewReader("loglevel\nexit\n")
	var out strings.Builder
	New(d, in, &out).Run()

	if !strings.Contains(out.String(), "Current log level: INFO") {
		t.Errorf("output = %q, want it to mention the current level", out.String())
	}
}

func TestLogLevelCommandSetsLevel(t *testing.T) {
	logx.SetLevel(logx.INFO)
	d := daemon.New("self", nil, config.NewCostOracle("self"), fakeInstaller{})

	in := strings.NewReader("loglevel debug\nexit\n")
	var out strings.Builder
	New(d, in, &out).Run()

	if logx.GetLevel() != logx.DEBUG {
		t.Errorf("GetLevel() = %v, want DEBUG after 'loglevel debug'", logx.GetLevel())
	}
	if !strings.Contains(out.String(), "Log level set to DEBUG") {
		t.Errorf("output = %q, want confirmation of the new level", out.String())
	}
}

func TestLSDBCommandListsKnownRouters(t *testing.T) {
	t.Setenv("CUSTO_self_r2_net", "1")
	d := daemon.New("self", nil, config.NewCostOracle("self"), fakeInstaller{})
	d.ProcessHello(wire.NewHello("r2", 1, "10.0.0.2", []config.RouterID{"self"}), "10.0.0.2")
	d.ProcessLSA(wire.NewLSA("r2", 1, 1, []string{"10.0.2.0/24"}, nil))

	in := strings.NewReader("lsdb\nexit\n")
	var out strings.Builder
	New(d, in, &out).Run()

	if !strings.Contains(out.String(), "r2") {
		t.Errorf("output = %q, want it to list router r2", out.String())
	}
}

func TestUnknownCommandReportsNoHandler(t *testing.T) {
	d := daemon.New("self", nil, config.NewCostOracle("self"), fakeInstaller{})

	in := strings.NewReader("bogus\nexit\n")
	var out strings.Builder
	New(d, in, &out).Run()

	if !strings.Contains(out.String(), "No handler registered") {
		t.Errorf("output = %q, want a no-handler message for an unknown command", out.String())
	}
}
