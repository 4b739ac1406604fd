package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inferno/internal/config"
	"inferno/internal/handlers"
	"inferno/internal/logger"
	"inferno/internal/repository"
	"inferno/internal/repository/db"
	"inferno/internal/sensor"
	"inferno/internal/server"
	"inferno/internal/service"
	"inferno/internal/smoker"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the controller and its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root.configFile)
		},
	}
}

// serve runs every loop under one errgroup. The first loop to fail, or a
// signal, stops the rest; the relays are switched off on the way out.
func serve(ctx context.Context, configFile string) error {
	loader := config.NewLoader(configFile, logger.Get(logger.InfoLevel))
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Errorw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()
	repos := repository.NewRepository(conn)

	hw, err := openRig(cfg, log)
	if err != nil {
		log.Errorw("hardware_open_failed", "err", err)
		return err
	}
	defer func() {
		if cerr := hw.Close(); cerr != nil {
			log.Errorw("hardware_close_failed", "err", cerr)
		}
	}()

	sampler := sensor.NewSampler(hw.adc, cfg.Sensor, log)
	recorder := service.NewEventRecorder(repos.EventRepo, service.RecorderConfig{
		Buffer:     cfg.Events.Buffer,
		Retention:  cfg.Events.Retention,
		PruneEvery: cfg.Events.PruneEvery,
	}, log)
	ctrl := smoker.NewController(smoker.Hardware{
		Auger:   hw.auger,
		Blower:  hw.blower,
		Igniter: hw.igniter,
		Temps:   sampler,
	}, cfg.Smoker, log, smoker.WithEventSink(recorder))

	if err := service.NewControlService(ctrl, repos.SettingsRepo, log).Restore(ctx); err != nil {
		log.Warnw("settings_restore_failed", "err", err)
	}
	services := service.NewService(repos, ctrl, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, log)

	loader.Watch(func(next config.Config) {
		ctrl.SetTuning(next.Smoker.PID)
		log.SetLevel(next.Log.Level)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sampler.Run(gctx) })
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error { return ctrl.FireMinder().Run(gctx) })
	g.Go(func() error { return recorder.Run(gctx) })
	if hw.grill != nil {
		g.Go(func() error { return hw.grill.Run(gctx, cfg.Sim.Tick) })
	}

	srv := &server.Server{}
	g.Go(func() error {
		log.Infow("http_listening", "port", cfg.Port)
		return srv.Run(cfg.Port, handlers.NewHandler(services, log).InitRoutes())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("stopped_with_error", "err", err)
		return err
	}
	log.Infow("stopped")
	return nil
}
