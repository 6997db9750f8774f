package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/config"
	"github.com/hackgods/clinic-calendar/internal/fake"
	"github.com/hackgods/clinic-calendar/internal/logger"
	"github.com/hackgods/clinic-calendar/internal/reference"
	"github.com/hackgods/clinic-calendar/internal/storage"
)

// seed replaces the stored appointment collection with generated,
// conflict-free appointments for the coming days.
//
//	SEED_DAYS            days to fill, starting tomorrow (default 14)
//	SEED_PER_DAY         candidates generated per day (default 12)
//	SEED_PATIENTS        size of a generated patient list (default 0: use reference data)
//	SEED_DOCTORS         size of a generated doctor list (default 5)
//	SEED_REFERENCE_OUT   where to write the generated reference list
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

	days := getInt("SEED_DAYS", 14)
	perDay := getInt("SEED_PER_DAY", 12)
	patients := getInt("SEED_PATIENTS", 0)
	doctors := getInt("SEED_DOCTORS", 5)

	lg.Info("seed starting", zap.String("storage", cfg.StorageBackend), zap.Int("days", days), zap.Int("per_day", perDay))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, closeKV, err := storage.Open(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("storage connection error", zap.Error(err))
	}
	defer closeKV()

	seed := uint64(time.Now().UnixNano())

	catalog := reference.Default()
	switch {
	case patients > 0:
		catalog = fake.Catalog(seed, patients, doctors)
		if err := catalog.Validate(); err != nil {
			lg.Fatal("invalid SEED_PATIENTS/SEED_DOCTORS", zap.Error(err))
		}
		if out := os.Getenv("SEED_REFERENCE_OUT"); out != "" {
			if err := writeJSON(out, catalog); err != nil {
				lg.Fatal("write reference data", zap.Error(err))
			}
			lg.Info("reference data written", zap.String("path", out))
		}
	case cfg.ReferenceData != "":
		catalog, err = reference.LoadFile(cfg.ReferenceData)
		if err != nil {
			lg.Fatal("reference data error", zap.Error(err))
		}
	}

	gen, err := fake.New(seed, catalog)
	if err != nil {
		lg.Fatal("cannot generate appointments", zap.Error(err))
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	coll := gen.Schedule(tomorrow, days, perDay)

	repo := storage.NewAppointmentRepository(kv, lg, storage.WithKey(cfg.StorageKey))
	if err := repo.Save(ctx, coll); err != nil {
		lg.Fatal("save appointments", zap.Error(err))
	}

	lg.Info("seed complete", zap.Int("appointments", len(coll)))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
