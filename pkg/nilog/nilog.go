// Package nilog wires up the module's structured logging. It is the
// one piece of ambient stack that survives from the teacher project's
// pkg/logging unchanged in shape: hclog, UTC timestamps, an optional
// JSON mode, and a line-prefixing writer for plain text output.
//
// The WAD engine packages (wad, ticket, titlemetadata, certchain and
// the rest) do not log at all. Logging happens only in the top-level
// verification helpers, which take an hclog.Logger from the caller or
// build one with New.
package nilog

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// New creates an hclog.Logger with the module's standard settings.
func New(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("NIIEBLA_JSON_LOG") == "1"

	if !jsonFormat {
		output = NewPrefixWriter("💿 ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// LevelFromEnv reads NIIEBLA_LOG_LEVEL, defaulting to "warn".
func LevelFromEnv() string {
	level := os.Getenv("NIIEBLA_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// Null returns a logger that discards everything, for callers that
// must pass a logger but want no output.
func Null() hclog.Logger {
	return hclog.NewNullLogger()
}
