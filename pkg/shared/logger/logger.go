package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/teardown/pkg/shared/config"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "TEARDOWN_LOG_LEVEL"

// NewLogger returns a named logger writing to stderr so stdout stays free for command output.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return newLogger(cfg, name, os.Stderr)
}

func newLogger(cfg *config.Config, name string, output io.Writer) hclog.Logger {
	level := ""
	if cfg != nil {
		level = cfg.Logger.Level
	}
	// env variable has the first priority
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = env
	}

	opts := &hclog.LoggerOptions{
		Name:            name,
		Output:          output,
		Level:           getLogLevel(strings.ToUpper(level)),
		DisableTime:     !config.GetBoolValue(cfg, "Logger.IncludeTime", false),
		IncludeLocation: config.GetBoolValue(cfg, "Logger.IncludeLocation", false),
	}
	if cfg != nil {
		opts.JSONFormat = cfg.Logger.JSONFormat
	}

	return hclog.New(opts)
}

// OrNull returns l, or a logger that discards everything when l is nil.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
