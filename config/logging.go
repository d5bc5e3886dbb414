package config

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "VNCVIEW_LOGLEVEL"

// ConfigureLogging sets the level of every package logger. The
// environment variable wins over level; unknown levels fall back to INFO.
func ConfigureLogging(level string) {
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = env
	}
	lvl, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(level)))
	if err != nil {
		lvl = logging.INFO
	}
	logging.SetLevel(lvl, "")
	logging.SetFormatter(logging.MustStringFormatter("%{level:.1s}%{time:0102 15:04:05.999999} %{pid} %{shortfile}] %{message}"))
}

// SetLogOutput sends every package logger to w. Call it before
// ConfigureLogging, which sets the level on the current backend.
func SetLogOutput(w io.Writer) {
	logging.SetBackend(logging.NewLogBackend(w, "", 0))
}
