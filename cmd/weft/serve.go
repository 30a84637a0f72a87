package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weft-dev/weft"
	"github.com/weft-dev/weft/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		configDir    string
		dataPath     string
		templatePath string
		addr         string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the template as a live page",
		Long: `Serve the bound template over HTTP with WebSocket push.

Every {{ expression }} in the template becomes a live region.
POST /data/{key} mutates a top-level field; connected browsers
receive region patches for everything that changed.

Examples:
  weft serve
  weft serve --addr=:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, data, tpl, err := loadProject(configDir, dataPath, templatePath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			app, err := weft.New(data)
			if err != nil {
				return err
			}
			defer app.Close()

			server, err := live.New(app, buildTree(tpl), &live.Config{
				Addr:           cfg.Addr,
				Title:          cfg.Title,
				DisableMetrics: !cfg.Metrics,
			})
			if err != nil {
				return err
			}
			defer server.Close()

			printBanner()
			info("serving %s on http://localhost%s", cfg.Name, cfg.Addr)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "", "Directory containing weft.json")
	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (default from weft.json)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Template file (default from weft.json)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from weft.json)")

	return cmd
}
