// Package console is the optional interactive debug console, gated by
// LSROUTED_NO_CONSOLE. It scans stdin line by line and dispatches on the
// first word to one handler per command (lsdb/neighbors/routes/loglevel).
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lsrouted/lsrouted/internal/config"
	"github.com/lsrouted/lsrouted/internal/daemon"
	"github.com/lsrouted/lsrouted/internal/logx"
)

// Console reads commands from in and writes responses to out until in is
// exhausted or a "exit" command is read.
type Console struct {
	d       *daemon.Daemon
	scanner *bufio.Scanner
	out     io.Writer
}

// New returns a Console bound to d, reading from in and writing to out.
func New(d *daemon.Daemon, in io.Reader, out io.Writer) *Console {
	return &Console{d: d, scanner: bufio.NewScanner(in), out: out}
}

// Run blocks reading commands until EOF or "exit".
func (c *Console) Run() {
	fmt.Fprintln(c.out, "Ready for commands. Type 'exit' to stop, 'help' for a list of commands.")

	for {
		fmt.Fprintf(c.out, "%s > ", c.d.Self())

		if !c.scanner.Scan() {
			return
		}

		fields := strings.Fields(c.scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "exit":
			return
		case "help":
			c.help()
		case "lsdb":
			c.lsdb(args)
		case "neighbors":
			c.neighbors(args)
		case "routes":
			c.routes(args)
		case "loglevel":
			c.loglevel(args)
		default:
			fmt.Fprintf(c.out, "No handler registered for command: %q\n", cmd)
		}
	}
}

func (c *Console) help() {
	fmt.Fprintln(c.out, "Available commands:")
	for _, cmd := range []string{"lsdb", "neighbors", "routes", "loglevel", "exit"} {
		fmt.Fprintf(c.out, "- %s\n", cmd)
	}
}

func (c *Console) lsdb(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: lsdb")
		return
	}

	fmt.Fprintln(c.out, "Link State Database:")
	for _, id := range c.d.LSDBKeys() {
		entry, ok := c.d.LSDBEntry(id)
		if !ok {
			continue
		}
		fmt.Fprintf(c.out, "  %s seq=%d addrs=%v links=%v\n", id, entry.SequenceNumber, entry.Addresses, entry.Links)
	}
}

func (c *Console) neighbors(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: neighbors")
		return
	}

	recognized := c.d.RecognizedNeighbors()
	ids := make([]string, 0, len(recognized))
	for id := range recognized {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	fmt.Fprintln(c.out, "Recognized neighbors:")
	for _, id := range ids {
		fmt.Fprintf(c.out, "  %s -> %s\n", id, recognized[config.RouterID(id)])
	}
}

func (c *Console) routes(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: routes")
		return
	}

	fmt.Fprintln(c.out, "Routing table:")
	for _, id := range c.d.LSDBKeys() {
		hop, ok := c.d.NextHop(id)
		if !ok {
			continue
		}
		fmt.Fprintf(c.out, "  %s via %s\n", id, hop)
	}
}

func (c *Console) loglevel(args []string) {
	if len(args) > 1 {
		fmt.Fprintln(c.out, "Usage: loglevel [NONE|WARN|INFO|DEBUG]")
		return
	}

	if len(args) == 0 {
		fmt.Fprintf(c.out, "Current log level: %s\n", logx.GetLevel())
		return
	}

	level, ok := logx.ParseLevel(strings.ToUpper(args[0]))
	if !ok {
		fmt.Fprintf(c.out, "Invalid log level: %s\n", args[0])
		return
	}
	logx.SetLevel(level)
	fmt.Fprintf(c.out, "Log level set to %s\n", level)
}
