// Package logx is the daemon's ambient logging layer.
// Level is controlled by the LOG_LEVEL environment variable and defaults
// to INFO. Output is colorized when stdout is a terminal.
package logx

import (
	"fmt"
	"log"
	"os"

	"github.com/mitchellh/colorstring"
	"golang.org/x/term"

	"github.com/lsrouted/lsrouted/internal/assert"
)

type Level int

const (
	NONE Level = iota
	WARN
	INFO
	DEBUG
)

const envVar = "LOG_LEVEL"

// errorLevel tags Errorf's fatal output. It is not a selectable LOG_LEVEL
// value (Errorf always logs and exits regardless of level), so it is kept
// out of the Level iota and out of String/ParseLevel.
const errorLevel Level = -1

var (
	level     Level
	colorize  bool
	levelTags = map[Level]string{errorLevel: "[red][ERROR][reset] ", WARN: "[yellow][WARN][reset] ", INFO: "[cyan][INFO][reset] ", DEBUG: "[dim][DEBUG][reset] "}
	plainTags = map[Level]string{errorLevel: "[ERROR] ", WARN: "[WARN] ", INFO: "[INFO] ", DEBUG: "[DEBUG] "}
)

func init() {
	colorize = term.IsTerminal(int(os.Stdout.Fd()))

	envLevel, present := os.LookupEnv(envVar)
	if !present {
		level = INFO
		return
	}

	parsed, ok := ParseLevel(envLevel)
	if !ok {
		level = INFO
		Warnf("unknown log level %q, defaulting to INFO", envLevel)
		return
	}
	level = parsed
}

// SetLevel overrides the current log level, e.g. from a debug console command.
func SetLevel(l Level) {
	level = l
}

// GetLevel returns the current log level, for the debug console's
// no-argument "loglevel" query form.
func GetLevel() Level {
	return level
}

// String renders l the way the debug console and LOG_LEVEL accept it.
func (l Level) String() string {
	switch l {
	case NONE:
		return "NONE"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses the LOG_LEVEL/console string form of a level.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "NONE":
		return NONE, true
	case "WARN":
		return WARN, true
	case "INFO":
		return INFO, true
	case "DEBUG":
		return DEBUG, true
	default:
		return 0, false
	}
}

func tag(l Level) string {
	if colorize {
		return colorstring.Color(levelTags[l])
	}
	return plainTags[l]
}

// Errorf logs a fatal startup error and terminates the process.
func Errorf(format string, v ...any) {
	log.Fatalf(tag(errorLevel)+format, v...)
	assert.Never("unreachable after log.Fatalf")
}

// Warnf logs a recoverable, per-packet or per-route error.
func Warnf(format string, v ...any) {
	if level < WARN {
		return
	}
	log.Print(fmt.Sprintf(tag(WARN)+format, v...))
}

// Infof logs an informational event (adjacency changes, route installs, ...).
func Infof(format string, v ...any) {
	if level < INFO {
		return
	}
	log.Print(fmt.Sprintf(tag(INFO)+format, v...))
}

// Debugf logs protocol-level chatter not interesting during normal operation.
func Debugf(format string, v ...any) {
	if level < DEBUG {
		return
	}
	log.Print(fmt.Sprintf(tag(DEBUG)+format, v...))
}
