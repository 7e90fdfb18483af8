// Package logging provides the small stderr logger the core uses for
// operationally significant but non-fatal conditions (an alias dereference
// that points at a deleted exercise, a config directory that had to be
// created). The teacher reserves a structured logging framework for its
// daemon and reaches for plain stderr writes everywhere else; the core
// here has no daemon, so it never needs more than this.
package logging

import (
	"fmt"
	"log"
	"os"
)

var std = log.New(os.Stderr, "ironlog: ", 0)

// Warn logs a recoverable inconsistency or best-effort fallback.
func Warn(format string, args ...any) {
	std.Print("warning: " + fmt.Sprintf(format, args...))
}
