package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trigg3rX/keybrowser/internal/api"
	"github.com/trigg3rX/keybrowser/internal/config"
	"github.com/trigg3rX/keybrowser/internal/metrics"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP key browser",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	c.Context = ctx

	rt, err := newSession(c, logging.APIProcess, true)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	logger.Info("Starting key browser", "mode", rt.service.Mode(), "port", config.GetAPIPort())

	collector := metrics.NewCollector()
	collector.Start(ctx)

	if schedule := config.GetTotalSampleSchedule(); schedule != "" {
		sampler := metrics.NewTotalSampler(rt.service, logger, config.GetRequestTimeout())
		if err := sampler.Start(schedule); err != nil {
			return err
		}
		defer sampler.Stop()
	}

	server := api.NewServer(api.Config{
		Port:           config.GetAPIPort(),
		RequestTimeout: config.GetRequestTimeout(),
		CORSOrigins:    config.GetCORSOrigins(),
	}, api.Dependencies{
		Logger:           logger,
		Browser:          rt.service,
		MetricsCollector: collector,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal, stopping key browser")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop API server: %w", err)
	}
	return nil
}
