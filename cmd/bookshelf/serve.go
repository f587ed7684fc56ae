package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookshelf-store-go/app/presentation/httpapi"
)

const (
	shutdownTimeout    = 10 * time.Second
	logMsgServing      = "serving http api"
	logMsgShuttingDown = "shutting down http api"
	logAttrAddr        = "addr"
)

func newServeCmd(app *application) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.HTTPAddr
			}

			server, err := httpapi.NewServer(app.store, app.prefs, httpapi.WithLogger(app.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errs := make(chan error, 1)
			go func() {
				app.logger.Info(logMsgServing, logAttrAddr, addr)
				errs <- server.Start(addr)
			}()

			select {
			case err = <-errs:
				return err
			case <-ctx.Done():
			}

			app.logger.Info(logMsgShuttingDown)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err = server.Shutdown(shutdownCtx); err != nil {
				return err
			}

			return <-errs
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to the configured http_addr")

	return cmd
}
