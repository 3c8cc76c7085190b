package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"EquityScreener/internal/config"
	"EquityScreener/internal/feed"
	"EquityScreener/internal/metrics"
	"EquityScreener/internal/notifier"
	"EquityScreener/internal/recorder"
	"EquityScreener/internal/report"
	"EquityScreener/internal/scheduler"
	"EquityScreener/internal/screener"
	"EquityScreener/internal/server"
	"EquityScreener/internal/strategy"
)

const usage = `usage:
  screener [-config path] run -strategy day|swing|long|undervalued|strong [-live] [-csv file] [-top N]
  screener [-config path] serve`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "config file (.yaml or .toml)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	switch flag.Arg(0) {
	case "run":
		err = runOnce(cfg, flag.Args()[1:])
	case "serve":
		err = serve(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func newSource(cfg *config.Config) *feed.FileSource {
	src := &feed.FileSource{
		SnapshotPath: cfg.Feed.SnapshotPath,
		MetricPaths:  cfg.Feed.MetricPaths,
		HARPath:      cfg.Feed.HARPath,
		DerivePivots: cfg.Feed.DerivePivots,
		BarDays:      cfg.Feed.BarDays,
	}
	if cfg.Feed.FetchBars {
		src.Fetcher = feed.NewYahooFetcher(cfg.Proxy, cfg.Feed.YahooSuffix)
		log.Printf("[INFO] bar history source: %s", src.Fetcher.Name())
	}
	return src
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func runOnce(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	name := fs.String("strategy", "day", "strategy to run")
	live := fs.Bool("live", cfg.Screen.Live, "use current session close instead of prior close")
	csvPath := fs.String("csv", "", "write results to this CSV file")
	top := fs.Int("top", cfg.Screen.TopN, "rows to print, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := strategy.ParseStrategy(*name)
	if err != nil {
		return err
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	svc := screener.NewService(newSource(cfg), rec, nil, cfg.Screen.SwingWeights)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	run, err := svc.Run(ctx, kind, *live)
	if err != nil {
		return err
	}

	fmt.Println(report.Table(run.Top(*top), kind))

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, kind, run.Candidates); err != nil {
			return err
		}
		log.Printf("[INFO] results saved to %s", *csvPath)
	}
	return nil
}

func serve(cfg *config.Config) error {
	log.Println("[INFO] screener starting...")
	strategies, err := cfg.Strategies()
	if err != nil {
		return err
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	svc := screener.NewService(newSource(cfg), rec, m, cfg.Screen.SwingWeights)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Println("[WARN] telegram not configured, digests disabled")
	}

	sched := scheduler.NewScheduler(ctx, svc, sender, m, strategies, cfg.Screen.TopN)
	if err := sched.RegisterAll(cfg.Schedule.CloseCron, cfg.Schedule.IntradayCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, running all strategies now")
		go sched.RunNow(cfg.Screen.Live)
	}

	srv := server.New(svc, cfg.Screen.Live, cfg.Screen.TopN, promhttp.Handler())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, cfg.HTTP.Addr) }()

	log.Println("[INFO] screener is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
		if err := <-errCh; err != nil {
			log.Printf("[ERROR] http shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Println("[INFO] screener stopped")
	return nil
}
