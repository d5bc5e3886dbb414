package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-vncview/vncview/config"
)

type demoOptions struct {
	stats     bool
	headless  bool
	width     int
	height    int
	fps       int
	multicast bool
}

func demoCmd(cfg *config.Config, global *globalOptions) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "View an animated test pattern",
		Long: `Connects the viewer to a built-in test pattern source instead of a
remote server. Drag with the left button to draw on the pattern.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			flags := cmd.Flags()
			if flags.Changed("stats") {
				c.Stats.ShowOnStart = opts.stats
			}
			if flags.Changed("width") {
				c.Demo.Width = opts.width
			}
			if flags.Changed("height") {
				c.Demo.Height = opts.height
			}
			if flags.Changed("fps") {
				c.Demo.FPS = opts.fps
			}
			if flags.Changed("multicast") {
				c.Demo.Multicast = opts.multicast
			}
			if err := c.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runViewer(ctx, c, viewerOptions{
				headless:    opts.headless,
				logsToFile:  global.logFile != "",
				interactive: isTerminal(os.Stdout),
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.stats, "stats", false, "show connection statistics on the terminal")
	flags.BoolVar(&opts.headless, "headless", false, "run without a window")
	flags.IntVar(&opts.width, "width", 0, "framebuffer width")
	flags.IntVar(&opts.height, "height", 0, "framebuffer height")
	flags.IntVar(&opts.fps, "fps", 0, "frames per second")
	flags.BoolVar(&opts.multicast, "multicast", false, "simulate a multicast connection")

	return cmd
}
