package main

import (
	"context"
	"net"
	"net/url"

	"github.com/spf13/cobra"

	"calgrid/internal/capture"
	appLog "calgrid/internal/log"
	"calgrid/internal/web"
)

func addSnapshot(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	opts := capture.Options{}
	var all bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the calendar page to a PNG with headless Chromium.",
		Example: `
calgrid snapshot --out calendar.png
calgrid snapshot --out week.png --granularity week --width 1024 --height 300
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.readConfig()
			if err != nil {
				return err
			}
			ro.applyLogLevel(cfg)
			if err := vo.apply(cmd, cfg); err != nil {
				return err
			}
			view, err := vo.newView(cfg, nil)
			if err != nil {
				return err
			}

			// Serve the page on a loopback port only for the capture.
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- web.NewServer(view, nil).ServeListener(ctx, ln) }()

			u := url.URL{Scheme: "http", Host: ln.Addr().String(), Path: "/calendar"}
			if all {
				u.RawQuery = url.Values{"all": {"1"}}.Encode()
			}
			opts.URL = u.String()

			capErr := capture.CaptureCalendarPNG(ctx, opts)
			cancel()
			if err := <-done; err != nil {
				appLog.Warn("snapshot server stopped with error", "reason", err.Error())
			}
			if capErr != nil {
				return capErr
			}
			appLog.Info("snapshot written", "path", opts.OutputPath)
			return nil
		},
	}

	addViewFlags(cmd, vo)
	cmd.Flags().StringVar(&opts.OutputPath, "out", "calendar.png", "PNG output path")
	cmd.Flags().IntVar(&opts.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "Capture timeout")
	cmd.Flags().StringVar(&opts.ExecPath, "chrome", "", "Chromium binary (default: look up on PATH)")
	cmd.Flags().BoolVar(&opts.NoSandbox, "no-sandbox", false, "Run Chromium without its sandbox")
	cmd.Flags().BoolVar(&all, "all", false, "Render every page of the window")
	topLevel.AddCommand(cmd)
}
