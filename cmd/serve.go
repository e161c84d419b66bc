package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diario-app/diario/internal/alerts"
	"github.com/diario-app/diario/internal/config"
	"github.com/diario-app/diario/internal/server"
	"github.com/diario-app/diario/internal/subjects"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
		cfg.Listen = addr
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	handler := &server.Handler{
		Store:      st,
		Detector:   newDetector(cfg),
		ShortNames: cfg.ShortNames,
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("diario listening on %s", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func newDetector(cfg *config.Config) *alerts.Detector {
	d := alerts.NewDetector(
		cfg.Ruleset(),
		subjects.NewResolver(cfg.Teachers),
		cfg.ShortNames,
	)
	d.LookaheadDays = cfg.LookaheadDays
	d.MaxTestAlerts = cfg.MaxTestAlerts
	return d
}
