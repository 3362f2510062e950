package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"hireling/internal/db"
	"hireling/internal/engine"
	"hireling/internal/lock"
	"hireling/internal/models/config"
	"hireling/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", "hireling.yaml", "path to the YAML config file")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
	}
	log = log.Level(level)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("scheduler exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := sql.Open("postgres", cfg.PostgresConfig.ConnectionUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	// Each process gets a unique lock owner so two replicas sharing an
	// instance name still cannot steal each other's releases.
	owner := fmt.Sprintf("%s-%s", cfg.Instance, uuid.NewString())
	locks := lock.NewPostgresDistributedLockManager(conn, owner, cfg.LockTimeout, log)

	if err := db.Init(ctx, conn, locks, log); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	schedules := postgres.NewScheduleRepository(conn)
	jobs := postgres.NewJobRepository(conn)

	e := engine.New(schedules, locks, jobs, cfg.WorkerCount, cfg.SweepTimeout, log)

	log.Info().
		Str("instance", cfg.Instance).
		Str("owner", owner).
		Int("worker_count", cfg.WorkerCount).
		Dur("sweep_interval", cfg.SweepInterval).
		Msg("starting schedule engine")

	e.Start(ctx, cfg.SweepInterval)
	return nil
}
