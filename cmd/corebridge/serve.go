package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/halver/corebridge/internal/bridge"
	"github.com/halver/corebridge/internal/config"
	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/journal"
	"github.com/halver/corebridge/internal/journal/factory"
	"github.com/halver/corebridge/internal/metrics"
	"github.com/halver/corebridge/internal/server"
)

func createServeCommand(globalFlags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Start the corebridge daemon",
		Long: `Start the corebridge daemon: the embedded node, the background service
bridge, the HTTP control API and optionally a Prometheus metrics endpoint.

Examples:
  corebridge serve                    # Defaults, no config file
  corebridge serve corebridge.toml    # Start with a specific config file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigPath
			if len(args) > 0 {
				path = args[0]
			}
			return runServe(path)
		},
	}
	return cmd
}

func runServe(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
	}

	logger := cfg.Log.NewSlogger()
	slog.SetDefault(logger)

	if cfg.Metrics.Enabled {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			logger.Warn("failed to register metrics", slog.Any("error", err))
		}
		if cfg.Metrics.Listen != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
					logger.Error("metrics server error", slog.Any("error", err))
				}
			}()
			logger.Info("metrics listening", slog.String("addr", cfg.Metrics.Listen))
		}
	}

	var sinks []journal.Sink
	for _, dsn := range cfg.Journal.DSNs {
		sink, err := factory.NewSinkFromDSN(dsn)
		if err != nil {
			return fmt.Errorf("journal sink %s: %w", dsn, err)
		}
		sinks = append(sinks, sink)
	}

	sim := core.NewSim(core.SimConfig{
		Title:        cfg.Node.Title,
		StepInterval: cfg.Node.StepInterval,
	})
	defer sim.Close()

	h := host.NewLocal(host.LocalConfig{
		Logger:     logger,
		StatusPath: cfg.Node.StatusFile,
	})

	b := bridge.New(bridge.Options{
		Source:        sim,
		Host:          h,
		Logger:        logger,
		PollInterval:  cfg.Poll.Interval,
		ShutdownGrace: cfg.Shutdown.Grace,
		Journal:       sinks,
	})

	if err := b.Start(); err != nil {
		return fmt.Errorf("failed to start background service: %w", err)
	}
	if cfg.Node.Autostart {
		b.Submit(bridge.RequestStart)
	}

	httpSrv, err := server.NewServer(cfg.Server.Listen, cfg.Server.BasePath, b)
	if err != nil {
		return fmt.Errorf("failed to start control server: %w", err)
	}
	defer func() { _ = httpSrv.Close() }()
	logger.Info("control API listening",
		slog.String("addr", cfg.Server.Listen),
		slog.String("base_path", cfg.Server.BasePath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("signal received", slog.String("signal", sig.String()))
		b.BeginShutdown(bridge.ReasonSignal)
	case <-b.Done():
		// Teardown was initiated elsewhere (node exit or control API).
	}
	<-b.Done()
	return nil
}
