package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pricewatch/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.close()

	e := api.NewRouter(rt.tracker, rt.store, rt.notifier, rt.log)
	e.Server.ReadTimeout = rt.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = rt.cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", rt.cfg.Server.Host, rt.cfg.Server.Port)
	rt.log.Info("starting server", "addr", addr, "storage", rt.cfg.Storage.Driver)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	rt.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	rt.log.Info("server stopped")
	return nil
}
