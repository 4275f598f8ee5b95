package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// serveCmd returns the serve command
func serveCmd(a *app) *cobra.Command {
	var minFreq int

	cmd := &cobra.Command{
		Use:   "serve SOURCE",
		Short: "Train on SOURCE and serve generated sentences over HTTP",
		Long: `Train a model on SOURCE once, then serve it over HTTP until interrupted.

Endpoints:
  GET /api/sentences?count=N         - N sentences as JSON (default 1)
  GET /api/sentences/stream?count=N  - N sentences as plain text, one per line
  GET /api/stats                     - model statistics
  GET /api/version                   - build information`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g := a.newGenerator()
			model, err := a.trainModel(ctx, g, args[0], minFreq)
			if err != nil {
				return err
			}
			// The training source is no longer needed.
			a.close()

			mux := http.NewServeMux()
			NewGenerateAPI(g, model, a.config, a.logger).RegisterRoutes(mux)
			return a.serve(ctx, &http.Server{Addr: a.config.ServerAddr, Handler: mux})
		},
	}

	cmd.Flags().IntVar(&minFreq, "min-freq", 0, "Prune links seen this many times or fewer before serving")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (a *app) serve(ctx context.Context, srv *http.Server) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting babbler server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			a.logger.Error("Server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown failed", "error", err)
		return err
	}
	a.logger.Info("Server stopped.")
	return nil
}
