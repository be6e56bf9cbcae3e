package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hayhai/hayhai/internal/pipeline"
	"github.com/hayhai/hayhai/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search API server",
	Long: `Serve exposes the search pipeline over HTTP:

  POST /search  {"question": "...", "max_results": 6}
  GET  /health

Responses above the gzip threshold are compressed.

Example:
  hayhai serve
  hayhai serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)

	srv := server.New(p, cfg.Server)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
