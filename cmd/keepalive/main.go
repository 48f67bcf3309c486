package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"keepalive/internal/config"
	"keepalive/internal/db"
	"keepalive/internal/ping"
	"keepalive/internal/scheduler"
	"keepalive/internal/state"
	"keepalive/internal/store"
	"keepalive/internal/store/memory"
	"keepalive/internal/store/postgres"
	"keepalive/internal/web"
)

func main() {
	configPath := flag.String("config", "keepalive.yaml", "path to the YAML config file")
	envPath := flag.String("env", "", "path to an optional .env file")
	once := flag.Bool("once", false, "ping every target once and exit")
	flag.Parse()

	loadDotEnv(*envPath)

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		// No config file; targets may still come from the environment.
		cfg, err = config.LoadBytes(nil)
	}
	if err != nil {
		log.Fatalf("keepalive: %v", err)
	}

	runStore, err := buildRunStore(cfg)
	if err != nil {
		log.Fatalf("keepalive: %v", err)
	}
	defer runStore.Close()

	sched := scheduler.New(ping.NewPinger(nil), runStore, cfg.TargetList(), cfg.MaxConcurrent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		// One pass over every target. Failed pings are recorded, never
		// reported, so this exits zero no matter what the network did.
		outcome := sched.RunOnce(ctx)
		log.Printf("keepalive: one-shot pass finished: %s, reported %s",
			outcome, state.ReportedOutcome(outcome))
		return
	}

	if cfg.Admin.Enabled {
		routeHandler := web.NewRouteHandler(runStore, sched, cfg.Admin.Port)
		go func() {
			if err := routeHandler.Serve(ctx); err != nil {
				log.Printf("keepalive: admin server: %v", err)
			}
		}()
	}

	log.Printf("keepalive: instance %s watching %d target(s)", cfg.Instance, len(cfg.Targets))
	sched.Run(ctx)
	log.Println("keepalive: shutdown complete")
}

func loadDotEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Fatalf("keepalive: load env file %s: %v", path, err)
		}
		return
	}
	// Default .env is optional.
	_ = godotenv.Load()
}

func buildRunStore(cfg *config.Config) (store.RunStore, error) {
	if cfg.Postgres.ConnectionURL == "" {
		return memory.NewRunStore(cfg.HistorySize), nil
	}

	sqlDB, err := db.Open(cfg.Postgres.ConnectionURL)
	if err != nil {
		return nil, err
	}
	if err := db.Init(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return postgres.NewRunStore(sqlDB), nil
}
