// Command lsrouted runs the link-state routing daemon for one container,
// wiring config, interface discovery, the UDP transport, the daemon
// context, the protocol engine, and the optional debug console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/console"
	"github.com/lsrouted/lsrouted/internal/control"
	"github.com/lsrouted/lsrouted/internal/daemon"
	"github.com/lsrouted/lsrouted/internal/ifacekind"
	"github.com/lsrouted/lsrouted/internal/logx"
	"github.com/lsrouted/lsrouted/internal/routeinstall"
	"github.com/lsrouted/lsrouted/internal/udpsock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Errorf("startup configuration error: %v", err)
		return
	}

	fmt.Printf("lsrouted starting as %s\n", cfg.RouterID)

	interfaces, err := ifacekind.Discover()
	if err != nil {
		logx.Errorf("failed to discover network interfaces: %v", err)
		return
	}
	if len(interfaces) == 0 {
		logx.Errorf("no usable network interfaces found")
		return
	}

	oracle := config.NewCostOracle(cfg.RouterID)

	d := daemon.New(cfg.RouterID, interfaces, oracle, routeinstall.NetlinkInstaller{})
	sock := udpsock.New()
	engine := control.New(d, sock, cfg.HelloInterval, cfg.LSAInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := engine.Run(ctx); err != nil {
			logx.Errorf("protocol engine stopped: %v", err)
		}
	}()

	if !cfg.ConsoleOn {
		<-ctx.Done()
		return
	}

	console.New(d, os.Stdin, os.Stdout).Run()
	cancel()
}
