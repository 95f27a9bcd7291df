package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/hotkeys"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/logging"
	"github.com/luriusTM/Seelen-UI/internal/pins"
	"github.com/luriusTM/Seelen-UI/internal/platform"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/seelenweg/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: weg daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the bar daemon in the foreground.")
	}
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	configPath := *path
	if configPath == "" {
		configPath, _ = config.DefaultConfigPath()
	}

	logger, logCloser := logging.Setup(cfg, os.Stderr)
	defer logCloser.Close()
	logger.Info("configuration loaded", "path", configPath, "hide_mode", cfg.HideMode, "position", cfg.Position)

	if err := serveDaemon(cfg, res.Files, configPath, logger); err != nil {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	logger.Info("daemon stopped")
	return 0
}

// serveDaemon wires the bar service to the window system and blocks until
// SIGINT/SIGTERM or a fatal component error.
func serveDaemon(cfg *config.Config, configFiles []string, configPath string, logger *slog.Logger) error {
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	pinsPath, err := cfg.GetPinsFile()
	if err != nil {
		return fmt.Errorf("failed to resolve pins file: %w", err)
	}
	pinsFile := pins.NewFile(pinsPath)
	initial, err := pinsFile.ReadOrDefault()
	if err != nil {
		logger.Warn("pins file unreadable, starting from defaults", "path", pinsPath, "error", err)
		initial = weg.DefaultBuckets()
	}
	saver := pins.NewSaver(pinsFile, pins.WithLogger(logger))

	loop := daemon.NewLoop()
	svc := daemon.NewService(loop, daemon.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Backend:    backend,
		PinsFile:   pinsFile,
		Saver:      saver,
		Initial:    initial,
		NewID:      uuid.NewString,
		Logger:     logger,
	})
	svc.Visibility.Subscribe(func(ev daemon.VisibilityEvent) {
		logger.Debug("bar visibility changed", "monitor", ev.Monitor, "hidden", ev.State.Hidden, "delayed", ev.State.Delayed)
	})

	tracker := daemon.NewTracker(daemon.TrackerConfig{
		Interval: time.Duration(cfg.RefreshIntervalMs) * time.Millisecond,
		Logger:   logger,
	}, backend, svc.Observe)
	if err := backend.WatchRoot(func(string) { tracker.Kick() }); err != nil {
		logger.Warn("root window events unavailable, polling only", "error", err)
	}

	watched := append(append([]string(nil), configFiles...), pinsPath)
	if len(configFiles) == 0 && configPath != "" {
		watched = append(watched, configPath)
	}
	watcher, err := config.NewWatcher(watched,
		config.WithOnChange(svc.FileChanged),
		config.WithWatchLogger(logger),
	)
	if err != nil {
		return err
	}

	server, err := ipc.NewServer(svc,
		ipc.WithServerLogger(logger),
		ipc.WithLanguage(cfg.Language),
	)
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })

	if err := svc.Start(gctx); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	if handler, err := hotkeys.NewHandler(backend, logger); err != nil {
		logger.Warn("hotkeys unavailable", "error", err)
	} else if err := handler.RegisterHideModeToggle(cfg.ToggleHideModeHotkey, svc); err != nil {
		logger.Warn("failed to register hide mode hotkey", "hotkey", cfg.ToggleHideModeHotkey, "error", err)
	} else if cfg.ToggleHideModeHotkey != "" {
		logger.Info("hide mode hotkey registered", "hotkey", cfg.ToggleHideModeHotkey)
	}

	g.Go(func() error { return saver.Run(gctx) })
	g.Go(func() error { return tracker.Run(gctx) })
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return server.Serve(gctx) })
	g.Go(func() error {
		backend.EventLoop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		backend.StopEventLoop()
		return nil
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				logger.Info("received SIGHUP, reloading")
				if err := svc.Reload(gctx); err != nil {
					logger.Error("reload failed", "error", err)
				}
			}
		}
	})

	logger.Info("weg daemon started", "socket", server.SocketPath(), "pins", pinsPath)

	<-gctx.Done()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := svc.Stop(stopCtx); err != nil && !errors.Is(err, daemon.ErrLoopStopped) {
		logger.Warn("failed to stop bars", "error", err)
	}
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
