package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/storage"
)

func TestWriteBackup(t *testing.T) {
	dir := t.TempDir()
	b := appointment.Backup{
		Appointments: []appointment.Appointment{
			{ID: "1", PatientID: "p1", DoctorID: "d1", Date: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC), Time: "09:00"},
		},
		ExportDate: time.Date(2024, time.January, 20, 3, 0, 0, 0, time.UTC),
	}

	path, n, err := writeBackup(b, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(dir, "clinic-calendar-backup-2024-01-20.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got appointment.Backup
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, b, got)

	// a second run on the same day replaces the file
	b.Appointments = nil
	_, n, err = writeBackup(b, dir)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestScheduleSpec(t *testing.T) {
	assert.Equal(t, "@every 24h0m0s", scheduleSpec("", 24*time.Hour))
	assert.Equal(t, "5 0 * * *", scheduleSpec("5 0 * * *", 24*time.Hour))

	for _, spec := range []string{scheduleSpec("", 90*time.Minute), scheduleSpec("5 0 * * *", 0)} {
		_, err := cron.ParseStandard(spec)
		assert.NoError(t, err, spec)
	}
}

type unreachableKV struct{}

func (unreachableKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (unreachableKV) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (unreachableKV) Delete(context.Context, string) error      { return errors.New("connection refused") }
func (unreachableKV) Ping(context.Context) error                { return errors.New("connection refused") }

func readBackup(t *testing.T, path string) appointment.Backup {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var b appointment.Backup
	require.NoError(t, json.Unmarshal(data, &b))
	return b
}

func TestRunOnce_KeepsBackupWhenStorageFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv := storage.NewMemoryKV()
	repo := storage.NewAppointmentRepository(kv, zap.NewNop())
	require.NoError(t, repo.Save(ctx, storage.SampleAppointments()[:1]))

	require.NoError(t, runOnce(ctx, repo, dir, zap.NewNop()))
	path := filepath.Join(dir, appointment.BackupFileName(time.Now()))
	require.Len(t, readBackup(t, path).Appointments, 1)

	down := storage.NewAppointmentRepository(unreachableKV{}, zap.NewNop())
	err := runOnce(ctx, down, dir, zap.NewNop())
	assert.ErrorContains(t, err, "connection refused")
	assert.Len(t, readBackup(t, path).Appointments, 1, "today's backup survives the outage")

	require.NoError(t, kv.Set(ctx, storage.DefaultAppointmentsKey, []byte("{broken")))
	assert.Error(t, runOnce(ctx, repo, dir, zap.NewNop()))
	assert.Len(t, readBackup(t, path).Appointments, 1, "a corrupted store is not backed up")
}

func TestRunOnce_NothingStored(t *testing.T) {
	dir := t.TempDir()
	kv := storage.NewMemoryKV()
	repo := storage.NewAppointmentRepository(kv, zap.NewNop())

	err := runOnce(context.Background(), repo, dir, zap.NewNop())
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// the worker never writes sample data into the store
	_, err = kv.Get(context.Background(), storage.DefaultAppointmentsKey)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestRunOnce_EmptyCollectionIsBackedUp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := storage.NewAppointmentRepository(storage.NewMemoryKV(), zap.NewNop())
	require.NoError(t, repo.Save(ctx, nil))

	require.NoError(t, runOnce(ctx, repo, dir, zap.NewNop()))
	b := readBackup(t, filepath.Join(dir, appointment.BackupFileName(time.Now())))
	assert.NotNil(t, b.Appointments)
	assert.Empty(t, b.Appointments)
}

func TestCronLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cl := cronLogger{log: zap.New(core).Sugar()}

	cl.Info("skip", "job", 1)
	cl.Error(errors.New("boom"), "panic", "job", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "skip", entries[0].Message)
	assert.Equal(t, int64(1), entries[0].ContextMap()["job"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
