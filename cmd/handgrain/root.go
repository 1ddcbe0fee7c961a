package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/app"
	"github.com/ayusman/handgrain/internal/config"
	"github.com/ayusman/handgrain/internal/logger"
	"github.com/ayusman/handgrain/internal/metrics"
	"github.com/ayusman/handgrain/internal/store"
)

// env is what every subcommand needs before it builds a source.
type env struct {
	settings *config.Config
	log      *zap.Logger
	store    *store.Store
	app      *app.App
}

func (e *env) close() {
	if e.app != nil {
		e.app.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	e.log.Sync()
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "handgrain",
		Short:         "Hand-gesture control of a granular synth over OSC",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")

	setup := func(ctx context.Context) (*env, error) {
		return setupEnv(ctx, configPath)
	}
	root.AddCommand(newRunCmd(setup), newReplayCmd(setup))
	return root
}

func setupEnv(ctx context.Context, configPath string) (*env, error) {
	settings, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{settings: settings, log: log}

	if settings.StaticDir == "" {
		settings.StaticDir = findWebDir()
	}

	dbPath, err := settings.DatabasePath()
	if err != nil {
		e.close()
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		e.close()
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	e.store, err = store.New(dbPath)
	if err != nil {
		e.close()
		return nil, err
	}

	e.app, err = app.New(app.Config{
		Settings: settings,
		Store:    e.store,
		Log:      log,
		Metrics:  metrics.NewManager(),
	})
	if err != nil {
		e.close()
		return nil, err
	}

	log.Info("handgrain configured",
		zap.String("db", dbPath),
		zap.String("http", settings.HTTPAddr),
		zap.String("static", settings.StaticDir),
	)
	return e, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// findWebDir looks for the visualizer's static files next to the working
// directory and in the data directory.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	dir, err := config.DataDir()
	if err != nil {
		return ""
	}
	web := filepath.Join(dir, "web")
	if info, err := os.Stat(web); err == nil && info.IsDir() {
		return web
	}
	return ""
}
