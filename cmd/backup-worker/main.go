package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/config"
	"github.com/hackgods/clinic-calendar/internal/logger"
	"github.com/hackgods/clinic-calendar/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	spec := scheduleSpec(cfg.BackupSchedule, cfg.BackupInterval)
	lg.Info("backup-worker starting up",
		zap.String("env", cfg.Env),
		zap.String("schedule", spec),
		zap.String("dir", cfg.BackupDir),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancelConnect := context.WithTimeout(rootCtx, 10*time.Second)
	kv, closeKV, err := storage.Open(connectCtx, cfg, lg)
	cancelConnect()
	if err != nil {
		lg.Fatal("storage connection error", zap.Error(err))
	}
	defer closeKV()

	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		lg.Fatal("create backup dir", zap.Error(err))
	}

	// Read never seeds: an empty store stays empty.
	repo := storage.NewAppointmentRepository(kv, lg, storage.WithKey(cfg.StorageKey))

	_ = runOnce(rootCtx, repo, cfg.BackupDir, lg)

	// SkipIfStillRunning keeps a slow backup from overlapping the next one.
	cl := cronLogger{log: lg.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(spec, func() { _ = runOnce(rootCtx, repo, cfg.BackupDir, lg) }); err != nil {
		lg.Fatal("invalid backup schedule", zap.String("schedule", spec), zap.Error(err))
	}
	c.Start()

	<-rootCtx.Done()
	lg.Info("shutdown signal received, stopping backup worker")
	<-c.Stop().Done()
}

// scheduleSpec returns the cron spec to run backups on: schedule when set,
// otherwise a fixed interval.
func scheduleSpec(schedule string, interval time.Duration) string {
	if schedule != "" {
		return schedule
	}
	return "@every " + interval.String()
}

// collectionReader is the part of the appointment repository a backup
// needs. Unlike Load it reports read failures.
type collectionReader interface {
	Read(ctx context.Context) ([]appointment.Appointment, error)
}

// runOnce writes today's backup. When the collection cannot be read the
// existing file is left alone.
func runOnce(ctx context.Context, src collectionReader, dir string, lg *zap.Logger) error {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	coll, err := src.Read(runCtx)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			lg.Warn("backup skipped, no appointments stored yet")
		} else {
			lg.Error("backup skipped, appointments could not be read", zap.Error(err))
		}
		return err
	}

	path, n, err := writeBackup(appointment.Backup{Appointments: coll, ExportDate: time.Now().UTC()}, dir)
	if err != nil {
		lg.Error("backup run error", zap.Error(err))
		return err
	}
	lg.Info("backup run complete",
		zap.String("file", path),
		zap.Int("appointments", n),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// writeBackup writes b to its dated file in dir, replacing an earlier
// backup from the same day.
func writeBackup(b appointment.Backup, dir string) (string, int, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("encode backup: %w", err)
	}

	path := filepath.Join(dir, appointment.BackupFileName(b.ExportDate))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", 0, fmt.Errorf("replace backup: %w", err)
	}
	return path, len(b.Appointments), nil
}
