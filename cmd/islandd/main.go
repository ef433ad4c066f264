package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"

	"dynamic-island/config"
	"dynamic-island/internal/api"
	"dynamic-island/internal/db"
	"dynamic-island/internal/device"
	"dynamic-island/internal/island"
	"dynamic-island/internal/logger"
	"dynamic-island/internal/media"
	"dynamic-island/internal/notification"
	"dynamic-island/internal/preview"
	"dynamic-island/internal/reminder"
	"dynamic-island/internal/store"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default $CONFIG_PATH or "+config.DefaultPath+")")
		showPreview = flag.Bool("preview", false, "Draw the island in the terminal")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	path := config.Path(*configPath)
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("failed to load configuration")
	}
	if *verbose {
		cfg.Log.Debug = true
	}
	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal().Err(err).Msg("invalid log configuration")
	}
	if *showPreview {
		// Components capture their logger on construction, so redirect first.
		logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "islandd.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open preview log file")
		}
		defer logFile.Close()
		logger.SetOutput(logFile)
	}
	logger.Info().Str("path", path).Msg("configuration loaded")

	settings, closeStore, err := openStore(&cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to initialize settings store")
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord := island.New(settings, nil, island.Options{
		FrameInterval:     cfg.Scheduler.FrameInterval,
		HydrationInterval: cfg.Scheduler.HydrationInterval,
		TodoInterval:      cfg.Scheduler.TodoInterval,
		NotificationTTL:   cfg.Scheduler.NotificationTTL,
		DeviceCooldown:    cfg.Devices.Cooldown,
		Sizes:             sizeTable(cfg.Sizes),
	})
	go coord.Run(ctx)

	pool := notification.NewWorkerPool(
		cfg.Notifications.Workers,
		notification.NewFilter(cfg.Notifications.AllowList),
		cfg.Notifications.Dedupe,
		coord,
	)
	pool.Start(ctx)

	remote := media.NewRemote()
	controller := media.NewController(remote, coord)

	if cfg.Devices.Removable.Enabled {
		watcher := device.NewRemovableWatcher(cfg.Devices.Removable.Poll, cfg.Devices.Removable.MountPrefixes)
		go watcher.Run(ctx, coord.EmitDevice)
	}

	var server *http.Server
	if cfg.Server.Enabled {
		handler := api.NewHandler(api.Deps{
			Island:     coord,
			Store:      settings,
			Remote:     remote,
			Controller: controller,
			Toasts:     pool,
			Cache:      cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL),
			CacheTTL:   cfg.Server.CacheTTL,
			LongPoll:   cfg.Server.LongPoll,
		})
		server = &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
			Handler:           api.NewRouter(handler, &cfg.Server),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
			}
		}()
	}

	if *showPreview {
		if err := preview.Run(ctx, coord); err != nil {
			logger.Error().Err(err).Msg("preview failed")
		}
		stop()
	} else {
		<-ctx.Done()
	}
	logger.Info().Msg("shutdown signal received, stopping services")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownDeadline)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server Shutdown")
		}
	}

	logger.Info().Msg("island stopped")
}

// openStore builds the settings store selected in cfg.
func openStore(cfg *config.StoreConfig) (reminder.SettingsStore, func(), error) {
	if cfg.Backend == "file" {
		return store.NewFileStore(cfg.Path), func() {}, nil
	}

	gormDB, err := db.Init(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.NewGormStore(gormDB), func() {
		if err := db.Close(gormDB); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}, nil
}

// sizeTable applies configured overrides to the default dimensions.
func sizeTable(overrides map[string]config.SizeConfig) island.SizeTable {
	table := island.DefaultSizes()
	for name, size := range overrides {
		category := island.SizeCategory(name)
		if _, ok := table[category]; !ok {
			logger.Warn().Str("category", name).Msg("ignoring size for unknown category")
			continue
		}
		if size.Width <= 0 || size.Height <= 0 {
			logger.Warn().Str("category", name).Msg("ignoring non-positive size")
			continue
		}
		table[category] = island.Dimensions{Width: size.Width, Height: size.Height}
	}
	return table
}
