package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"walkup-counter/internal/common/config"
	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/common/metrics"
	"walkup-counter/internal/connections/database"
	"walkup-counter/internal/connections/rabbitmq"
	"walkup-counter/internal/microservices/kitchen"
	kservice "walkup-counter/internal/microservices/kitchen/service"
	"walkup-counter/internal/microservices/notificator"
	"walkup-counter/internal/microservices/order"
	"walkup-counter/internal/microservices/order/admission"
	"walkup-counter/internal/microservices/order/handlers"
	"walkup-counter/internal/microservices/order/repository"
	oservice "walkup-counter/internal/microservices/order/service"
	"walkup-counter/internal/microservices/tracker"
	trepo "walkup-counter/internal/microservices/tracker/repository"
	tservice "walkup-counter/internal/microservices/tracker/service"
)

func main() {
	mode := flag.String("mode", "counter", "counter | notification-subscriber | check")
	cfgPath := flag.String("config", "", "path to the YAML config (default: config.yaml, deploy/config.example.yaml)")
	addr := flag.String("addr", "", "counter: TCP listen address")
	trackerAddr := flag.String("tracker-addr", "", "counter: statistics HTTP address")
	workers := flag.Int("workers", 0, "counter: number of kitchen workers")
	maxSessions := flag.Int("max-sessions", 0, "counter: max concurrent customer sessions")
	flag.Parse()

	lg := logger.New("bootstrap")

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Counter.Addr = *addr
	}
	if *trackerAddr != "" {
		cfg.Tracker.Addr = *trackerAddr
	}
	if *workers > 0 {
		cfg.Kitchen.Workers = *workers
	}
	if *maxSessions > 0 {
		cfg.Counter.MaxSessions = *maxSessions
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		lg.Error("log_level_invalid", err, map[string]any{"level": cfg.LogLevel})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "counter":
		lg.Info("service_started", map[string]any{"service": "counter", "addr": cfg.Counter.Addr, "tracker_addr": cfg.Tracker.Addr})
		if err := runCounter(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := runNotificator(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(ctx, cfg, lg); err != nil {
			lg.Error("check_failed", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: counter | notification-subscriber | check")
		os.Exit(2)
	}
}

func loadConfig(path string) (config.App, error) {
	if path == "" {
		p, err := config.FindConfig()
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		path = p
	}
	return config.Load(path)
}

func runCounter(ctx context.Context, cfg config.App) error {
	lg := logger.New("counter")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		p, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer p.Close()
		if err := database.EnsureSchema(ctx, p); err != nil {
			return err
		}
		pool = p
	}

	var notifier oservice.Notifier = oservice.NopNotifier{}
	if cfg.Rabbit.Enabled() {
		mq, err := rabbitmq.Dial(rabbitmq.FromApp(cfg.Rabbit))
		if err != nil {
			return err
		}
		defer mq.Close()
		if err := mq.DeclareTopology(); err != nil {
			return err
		}
		notifier = oservice.NewRabbitNotifier(mq)
	}

	cookTimes, err := cfg.Kitchen.ItemCookTimes()
	if err != nil {
		return err
	}
	core := kitchen.New(kservice.Config{
		Workers:         cfg.Kitchen.Workers,
		DefaultCookTime: cfg.Kitchen.DefaultCookTime,
		CookTimes:       cookTimes,
	}, logger.New("kitchen"), m)

	// The kitchen outlives the listener so that sessions still waiting at
	// shutdown get their orders; it is stopped by Shutdown below.
	core.Start(context.Background())

	var repos *repository.Repository
	var snapshots trepo.TrackerRepoInterface = trepo.NopTrackerRepo{}
	if pool != nil {
		repos = repository.New(pool)
		snapshots = trepo.NewTrackerRepo(pool)
	} else {
		repos = repository.New(nil)
	}

	svc := oservice.New(oservice.Deps{
		Kitchen:     core,
		Stats:       core.Stats,
		Repo:        repos.OrderRepo,
		Notifier:    notifier,
		Metrics:     m,
		Logger:      lg,
		WaitTimeout: cfg.Counter.WaitTimeout,
	})
	h := handlers.New(svc, handlers.Options{
		MaxItems:     cfg.Counter.MaxItems,
		ReadTimeout:  cfg.Counter.ReadTimeout,
		WriteTimeout: cfg.Counter.WriteTimeout,
	})
	gate := admission.New(cfg.Counter.MaxSessions)
	ln := order.NewListener(gate, h, core.Stats, m, lg)

	trk := tservice.NewTrackerService(tservice.Deps{
		Stats:     core.Stats,
		Queue:     core.Queue,
		Workers:   core.Kitchen,
		Admission: gate,
		Orders:    repos.OrderRepo,
		Repo:      snapshots,
		Logger:    logger.New("tracker"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ln.Run(gctx, cfg.Counter.Addr) })
	g.Go(func() error { return tracker.Start(gctx, cfg.Tracker.Addr, trk, reg) })
	runErr := g.Wait()

	snap := core.Shutdown()
	// ctx is already cancelled here; the final report gets its own.
	if err := trk.Report(context.WithoutCancel(ctx), snap); err != nil {
		lg.Error("final_report_failed", err, nil)
	}
	return runErr
}

func runNotificator(ctx context.Context, cfg config.App) error {
	if !cfg.Rabbit.Enabled() {
		return errors.New("notification-subscriber needs a rabbitmq section in the config")
	}
	mq, err := rabbitmq.Dial(rabbitmq.FromApp(cfg.Rabbit))
	if err != nil {
		return err
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return err
	}
	return notificator.Start(ctx, mq, logger.New("notificator"))
}

// runCheck validates the config and reaches every configured backend once.
func runCheck(ctx context.Context, cfg config.App, lg *logger.Logger) error {
	if _, err := cfg.Kitchen.ItemCookTimes(); err != nil {
		return err
	}
	if cfg.Database.Enabled() {
		p, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		p.Close()
		lg.Info("database_ok", map[string]any{"host": cfg.Database.Host})
	}
	if cfg.Rabbit.Enabled() {
		mq, err := rabbitmq.Dial(rabbitmq.FromApp(cfg.Rabbit))
		if err != nil {
			return err
		}
		defer mq.Close()
		if err := mq.Ping(); err != nil {
			return err
		}
		lg.Info("rabbitmq_ok", map[string]any{"host": cfg.Rabbit.Host})
	}
	lg.Info("config_ok", map[string]any{"workers": cfg.Kitchen.Workers, "max_sessions": cfg.Counter.MaxSessions})
	return nil
}
