package main

import (
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"github.com/go-vncview/vncview/config"
)

var log = logging.MustGetLogger("vncview")

// Set at build time.
var (
	version = "dev"
	commit  = "none"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	var opts globalOptions
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:   "vncview",
		Short: "Remote framebuffer viewer",
		Long: `vncview renders a remote framebuffer in a native window, forwards
local pointer, keyboard and clipboard input back to the connection, and
can show live connection statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			if opts.logFile != "" {
				f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return errors.Annotatef(err, "could not open log file %s", opts.logFile)
				}
				config.SetLogOutput(f)
			}
			config.ConfigureLogging(cfg.Logging.Level)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "vncview.yaml", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config; "+config.LogLevelEnv+" overrides both)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(
		demoCmd(&cfg, &opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vncview: %s\n", err)
		os.Exit(1)
	}
}
