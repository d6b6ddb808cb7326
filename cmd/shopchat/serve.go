package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/shopchat/internal/adapters/http"
	"github.com/PabloGalante/shopchat/internal/config"
	"github.com/PabloGalante/shopchat/internal/observability"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			observability.Configure(os.Stdout, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, closer, err := buildService(ctx, cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           httpadapter.NewServer(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				observability.Logger().Info("shopchat API listening", "port", cfg.Port, "mode", cfg.Mode)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			observability.Logger().Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides SHOPCHAT_PORT)")
	return cmd
}
