// Package shared holds the small pieces of ambient CLI plumbing every
// blackjack-ev subcommand needs: logger setup and signal-driven shutdown
// contexts. It follows cmd/pokerforbots/shared's split of the same two
// concerns into logging.go/signals.go, swapped from zerolog to
// charmbracelet/log since that is the logging library internal/tui
// already uses in this repository.
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures charmbracelet/log with pretty console output.
func SetupLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger
}
