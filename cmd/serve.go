package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CarterSwain/sonic-circle-backend/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted, then shuts down gracefully.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}

	stores, err := r.openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger), server.CORS())

	handler := server.NewAPIHandler(stores.accounts, stores.connections, stores.engine, stores.auth, r.logger)
	handler.Register(router)

	srv := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		r.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
