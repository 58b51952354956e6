package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/feedmailer/feedmailer/pkg/campaign"
	"github.com/feedmailer/feedmailer/pkg/config"
	"github.com/feedmailer/feedmailer/pkg/fetcher"
	"github.com/feedmailer/feedmailer/pkg/listmonk"
	"github.com/feedmailer/feedmailer/pkg/scheduler"
	"github.com/feedmailer/feedmailer/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"status server listen address (overrides config)"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLog(opts.Debug, cfg.Listmonk.Password)

	log.Printf("[INFO] starting feedmailer version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts); err != nil {
		log.Printf("[ERROR] feedmailer failed: %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// run wires the components and blocks until the context is canceled
func run(ctx context.Context, cfg *config.Config, opts Opts) error {
	store := listmonk.New(cfg.Listmonk.URL, cfg.Listmonk.Username, cfg.Listmonk.Password, cfg.Listmonk.Timeout)

	if err := store.Ping(ctx); err != nil {
		// not fatal, listmonk may come up later; cycles retry on their own
		log.Printf("[WARN] listmonk not reachable at startup: %v", err)
	}

	fetch := fetcher.New(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxAttempts, cfg.Fetch.RetryDelay)
	renderer := campaign.NewRenderer()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}
	hour, minute, err := cfg.DailyAt()
	if err != nil {
		return fmt.Errorf("parse daily_at: %w", err)
	}
	weekday, err := cfg.WeeklyDay()
	if err != nil {
		return fmt.Errorf("parse weekly_day: %w", err)
	}
	firstPoll, ok := scheduler.ParseFirstPollPolicy(cfg.Schedule.FirstPoll)
	if !ok {
		return fmt.Errorf("unknown first_poll policy %q", cfg.Schedule.FirstPoll)
	}

	sched := scheduler.New(store, fetch, renderer, scheduler.Config{
		CycleInterval: cfg.Schedule.CycleInterval,
		CycleDeadline: cfg.Schedule.CycleDeadline,
		MaxWorkers:    cfg.Schedule.MaxWorkers,
		Location:      loc,
		DailyHour:     hour,
		DailyMinute:   minute,
		WeeklyDay:     weekday,
		FirstPoll:     firstPoll,
		AutoSend:      cfg.Campaign.AutoSend,
	})

	listen, timeout := cfg.GetServerConfig()
	if opts.Listen != "" {
		listen = opts.Listen
	}
	srv := server.New(store, sched, listen, timeout, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	return g.Wait()
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
