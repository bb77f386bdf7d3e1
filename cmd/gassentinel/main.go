package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"GasSentinel/internal/analyzer"
	"GasSentinel/internal/api"
	"GasSentinel/internal/collector"
	"GasSentinel/internal/config"
	"GasSentinel/internal/exporter"
	"GasSentinel/internal/logging"
	"GasSentinel/internal/model"
	"GasSentinel/internal/notifier"
	"GasSentinel/internal/recorder"
	"GasSentinel/internal/scheduler"
	"GasSentinel/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")
	headless := flag.Bool("headless", false, "run without the interactive menu until SIGINT/SIGTERM")
	flag.Parse()

	bootLog := logrus.New()
	if err := config.LoadDotEnv(".env"); err != nil {
		bootLog.Fatalf("load .env: %v", err)
	}

	// Load config
	path := *cfgPath
	if path == "" {
		path = config.DefaultPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		bootLog.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		bootLog.Fatalf("config validation: %v", err)
	}
	loc, _ := cfg.Location()

	// The menu owns the terminal, so it only logs to file.
	logFile := cfg.Log.File
	if logFile == "" && !*headless {
		logFile = logging.DefaultFile
	}
	logger, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		File:    logFile,
		Console: *headless,
	})
	if err != nil {
		bootLog.Fatalf("init logger: %v", err)
	}
	defer logger.Close()
	logger.Info("GasSentinel starting...")

	// Init fetcher
	fetcher, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		logger.Fatalf("init fetcher: %v", err)
	}
	defer closeFetcher()
	logger.Infof("gas oracle: %s", fetcher.Name())

	an := analyzer.New(cfg.Monitor.HistoryLimit)
	col := collector.NewCollector(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newRecorder(ctx, cfg, logger)
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Errorf("close recorders: %v", err)
		}
	}()

	sched := scheduler.NewScheduler(col, an, rec, logger)
	sched.Thresholds = cfg.Thresholds
	sched.Location = loc

	// Init Telegram notifier
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		if cfg.Notifications.Enabled {
			sched.Alerter = notifier.NewPriceAlerter(tn, cfg.Notifications.Threshold, loc, logger)
		}
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("Telegram polling started")
	} else {
		logger.Warn("telegram credentials not set, chat commands and alerts disabled")
	}

	exp := exporter.New(cfg.Export.Dir, an)

	var srv *api.Server
	if cfg.HTTP.Addr != "" {
		srv = api.New(an, sched, exp, cfg.Thresholds, logger)
		srv.Start(cfg.HTTP.Addr)
	}

	if err := sched.Start(ctx, cfg.Monitor.IntervalMinutes); err != nil {
		logger.Fatalf("start scheduler: %v", err)
	}

	if *headless {
		logger.Info("GasSentinel is running. Press Ctrl+C to stop.")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received, stopping...")
	} else if err := tui.Run(sched, exp, loc); err != nil {
		logger.Errorf("menu: %v", err)
	}

	sched.Stop()
	cancel()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("http shutdown: %v", err)
		}
	}
	logger.Info("GasSentinel stopped")
}

func newFetcher(cfg *config.Config) (collector.Fetcher, func(), error) {
	switch cfg.Oracle.Provider {
	case config.ProviderNode:
		nf, err := collector.NewNodeFetcher(cfg.Oracle.RPCURL, 0)
		if err != nil {
			return nil, nil, err
		}
		return nf, nf.Close, nil
	case config.ProviderMock:
		return &collector.MockFetcher{Quote: model.GasQuote{Slow: "18", Standard: "22", Fast: "30"}}, func() {}, nil
	default:
		ef := collector.NewEtherscanFetcher(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.ChainID, cfg.OracleTimeout(), cfg.Proxy)
		return ef, func() {}, nil
	}
}

// newRecorder wires the configured sinks. A sink that fails to open is
// skipped with a warning.
func newRecorder(ctx context.Context, cfg *config.Config, logger *logging.Logger) recorder.Recorder {
	var recs []recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			logger.Warnf("create sqlite dir: %v", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warnf("init sqlite recorder failed, skipping: %v", err)
		} else {
			recs = append(recs, sr)
		}
	}
	if cfg.Redis.Addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := recorder.DialRedis(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Warnf("init redis recorder failed, skipping: %v", err)
		} else {
			recs = append(recs, recorder.NewRedisRecorder(client, cfg.Redis.Key, cfg.Monitor.HistoryLimit, logger))
		}
	}
	if len(recs) == 0 {
		return recorder.NewNoopRecorder()
	}
	return recorder.NewMultiRecorder(recs...)
}
