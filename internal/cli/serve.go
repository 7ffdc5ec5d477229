package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphlens/graphlens/internal/server"
	"github.com/graphlens/graphlens/pkg/loader"
)

// newServeCmd creates the HTTP server command.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		width      float64
		height     float64
	)

	cmd := &cobra.Command{
		Use:   "serve <graph.json>",
		Short: "Expose a graph session over an HTTP API",
		Long: `Serve loads a graph file and exposes the interaction surface over HTTP:
hover, selection and search mutate a headless engine, and overlay positions
track the virtual camera exactly as they do in the terminal viewer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			session, err := loader.New().LoadFile(args[0])
			if err != nil {
				return err
			}
			logger.Info("graph loaded", "nodes", session.Store.NodeCount(), "edges", session.Store.EdgeCount(), "session", session.Token)

			srv := server.New(session, logger, width, height)
			defer srv.Close()

			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			logger.Info("listening", "addr", cfg.Server.Addr)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().Float64Var(&width, "width", 800, "virtual viewport width")
	cmd.Flags().Float64Var(&height, "height", 600, "virtual viewport height")
	return cmd
}
