// Package app wires the handgrain pipeline: a hand source feeding the frame
// processor, OSC and websocket sinks, the OSC listener, the HTTP server and
// settings persistence.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/config"
	"github.com/ayusman/handgrain/internal/control"
	"github.com/ayusman/handgrain/internal/detector"
	"github.com/ayusman/handgrain/internal/engine"
	"github.com/ayusman/handgrain/internal/metrics"
	"github.com/ayusman/handgrain/internal/osc"
	"github.com/ayusman/handgrain/internal/server"
	"github.com/ayusman/handgrain/internal/store"
)

// Config holds the dependencies of an App. Nil sinks are replaced by OSC
// sinks dialed from Settings; a nil Store disables persistence and presets.
type Config struct {
	Settings *config.Config
	Store    *store.Store
	Log      *zap.Logger
	Metrics  *metrics.Manager
	Synth    engine.SynthSink
	Visual   engine.VisualSink
}

// App is the running handgrain process.
type App struct {
	settings *config.Config
	store    *store.Store
	log      *zap.Logger
	metrics  *metrics.Manager

	hub      *server.Hub
	proc     *engine.Processor
	session  *engine.Session
	listener *osc.Listener
	server   *server.Server
	closers  []io.Closer

	pending atomic.Pointer[control.Snapshot]
	dirty   chan struct{}
}

// New builds an App and restores the saved control settings.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.New()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewManager()
	}

	a := &App{
		settings: cfg.Settings,
		store:    cfg.Store,
		log:      cfg.Log,
		metrics:  cfg.Metrics,
		hub:      server.NewHub(cfg.Log),
		dirty:    make(chan struct{}, 1),
	}

	synth := cfg.Synth
	if synth == nil {
		sink, err := osc.Dial(cfg.Settings.SynthAddr)
		if err != nil {
			return nil, fmt.Errorf("synth sink: %w", err)
		}
		a.closers = append(a.closers, sink)
		synth = sink
	}

	visual := cfg.Visual
	if visual == nil {
		sink, err := osc.Dial(cfg.Settings.VisualAddr)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("visual sink: %w", err)
		}
		a.closers = append(a.closers, sink)
		visual = sink
	}

	proc, err := engine.New(cfg.Settings.Engine(), synth, engine.MultiVisual{visual, a.hub},
		engine.WithLogger(cfg.Log),
		engine.WithMetrics(cfg.Metrics),
		engine.WithEventHook(a.onEvent),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("frame processor: %w", err)
	}
	a.proc = proc
	a.session = engine.NewSession(proc, cfg.Settings.EventBuffer, cfg.Log)
	a.listener = osc.NewListener(cfg.Settings.OSCListenAddr, a.session, cfg.Log)
	a.server = server.New(server.Config{
		StaticDir: cfg.Settings.StaticDir,
		Store:     cfg.Store,
		Control:   a.session,
		Hub:       a.hub,
		Metrics:   cfg.Metrics.Handler(),
		Log:       cfg.Log,
	})

	a.restore()
	return a, nil
}

// restore replays the saved control settings into the processor. It runs
// before any goroutine touches the processor.
func (a *App) restore() {
	if a.store == nil {
		return
	}
	saved, err := a.store.Settings().LoadControl()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.log.Warn("could not load saved settings", zap.Error(err))
		}
		return
	}
	for _, ev := range saved.Events() {
		if err := a.proc.Apply(ev); err != nil {
			a.log.Warn("saved setting rejected", zap.String("event", ev.Name()), zap.Error(err))
		}
	}
	// Restoring is not a change worth writing back.
	a.pending.Store(nil)
	select {
	case <-a.dirty:
	default:
	}
	a.log.Info("restored saved settings", zap.String("page", saved.Page))
}

// onEvent runs on the frame goroutine; it only records the snapshot and
// wakes the persister.
func (a *App) onEvent(ev control.Event, snap control.Snapshot) {
	if a.store == nil {
		return
	}
	if _, ok := ev.(control.ResetParameters); ok {
		return
	}
	a.pending.Store(&snap)
	select {
	case a.dirty <- struct{}{}:
	default:
	}
}

func (a *App) persist(ctx context.Context) {
	flush := func() {
		snap := a.pending.Swap(nil)
		if snap == nil {
			return
		}
		if err := a.store.Settings().SaveControl(store.ControlFromSnapshot(*snap)); err != nil {
			a.log.Warn("could not save settings", zap.Error(err))
		}
	}

	for {
		select {
		case <-a.dirty:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

// Run drives frames from src through the processor until src ends, fails or
// ctx is cancelled, serving the OSC listener and HTTP API meanwhile.
func (a *App) Run(ctx context.Context, src detector.Source) error {
	if err := a.listener.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				a.log.Error("component stopped", zap.String("component", name), zap.Error(err))
				cancel()
			}
		}()
	}

	start("osc listener", a.listener.Serve)
	if a.settings.HTTPAddr != "" {
		start("http server", func(ctx context.Context) error {
			return a.server.Run(ctx, a.settings.HTTPAddr)
		})
	}
	if a.store != nil {
		start("persister", func(ctx context.Context) error {
			a.persist(ctx)
			return nil
		})
	}

	a.log.Info("frame loop started",
		zap.String("synth", a.settings.SynthAddr),
		zap.String("visual", a.settings.VisualAddr),
		zap.String("osc", a.settings.OSCListenAddr),
	)
	err := a.session.Run(ctx, src)
	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("frame loop: %w", err)
	}
	a.log.Info("frame loop stopped")
	return nil
}

// Session returns the engine session.
func (a *App) Session() *engine.Session {
	return a.session
}

// Processor returns the frame processor.
func (a *App) Processor() *engine.Processor {
	return a.proc
}

// Server returns the HTTP handler.
func (a *App) Server() *server.Server {
	return a.server
}

// Hub returns the websocket visualization hub.
func (a *App) Hub() *server.Hub {
	return a.hub
}

// Listener returns the OSC listener.
func (a *App) Listener() *osc.Listener {
	return a.listener
}

// Close releases the OSC sockets opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
