package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/clock"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/httpapi"
	"jobboard-engine/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dataDir, defaultCfgPath, addr string
	var verbose bool

	flagSet := pflag.NewFlagSet("jobboard-engine", pflag.ContinueOnError)
	flagSet.StringVar(&dataDir, "data-dir", "", "directory for config.yml, the dataset and bookmarks (default: $"+config.EnvDataDir+" or .)")
	flagSet.StringVar(&defaultCfgPath, "config", filepath.Join("config", "config.yml"), "config template copied into the data dir on first run")
	flagSet.StringVar(&addr, "addr", "", "listen address (default: 127.0.0.1:<app.port>)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Engine data dir: flag, then env (the desktop shell passes one), else local folder.
	if dataDir == "" {
		dataDir = os.Getenv(config.EnvDataDir)
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.OverlayEnv(&cfg, os.Getenv)
		if cfg.App.DataDir == "" {
			cfg.App.DataDir = dataDir
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			logger.Warn("config", "warning", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bookmarks backend and first dataset load are independent.
	var (
		kv       bookmarks.KV
		closeKV  func() error
		src      dataset.Source
		closeSrc func() error
		catalog  *dataset.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kv, closeKV, err = openBookmarks(gctx, cfg)
		return err
	})
	g.Go(func() error {
		var err error
		src, closeSrc, err = openDataset(gctx, cfg)
		if err != nil {
			return err
		}
		catalog = dataset.NewCatalog(src, clock.Real(), logger)
		_, err = catalog.Reload(gctx)
		return err
	})
	err = g.Wait()
	defer closeQuietly(logger, "bookmarks", closeKV)
	defer closeQuietly(logger, "dataset", closeSrc)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	store := bookmarks.NewStore(kv, cfg.Bookmarks.Key, logger)
	sessions := httpapi.NewSessions(clock.Real(), logger)
	defer sessions.CloseAll()

	sched := scheduler.New(logger)
	if err := sched.Add(cfg.Dataset.Reload, "dataset-reload", func(ctx context.Context) error {
		_, err := catalog.Reload(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := sched.Add(cfg.Sessions.Sweep, "session-sweep", func(context.Context) error {
		live := cfgVal.Load().(config.Config)
		sessions.Sweep(time.Duration(live.Sessions.IdleTimeoutSeconds) * time.Second)
		return nil
	}); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	mux := httpapi.NewMux(httpapi.Deps{
		Catalog:     catalog,
		Bookmarks:   store,
		Sessions:    sessions,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Log:         logger,
	})

	var limiter *httpapi.ClientLimiter
	if cfg.HTTP.RatePerSec > 0 {
		limiter = httpapi.NewClientLimiter(cfg.HTTP.RatePerSec, cfg.HTTP.Burst)
	}

	if addr == "" {
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           httpapi.Handler(mux, logger, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token := os.Getenv("JOBBOARD_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
		// The parent process reads this line to learn the token.
		fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(token, stop))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("engine listening",
		"addr", "http://"+ln.Addr().String(),
		"data_dir", cfg.App.DataDir,
		"dataset", src.Name(),
		"bookmarks", cfg.Bookmarks.Backend,
	)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("engine stopped")
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `jobboard-engine serves the job listings engine over local HTTP.

On first run config.yml is created in the data dir from --config (or
built-in defaults). The dataset, bookmark backend and listing defaults
are read from it.

Usage:
  jobboard-engine [flags]

Flags:
%s`, flagSet.FlagUsages())
}
