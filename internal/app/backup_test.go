package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/memory"
	"github.com/ahlemhorchani/smart-interventions/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backupConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Database: config.DatabaseConfig{
			Type:           "sqlite",
			DSN:            filepath.Join(dir, "city.db"),
			MigrationsPath: "../../migrations/sqlite",
			MaxOpenConns:   1,
		},
		Auth:     config.AuthConfig{JWTSecret: "test-secret-key-with-at-least-32-characters", TokenDuration: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
		Events:   config.EventsConfig{Driver: "none"},
		Storage:  config.StorageConfig{Driver: "memory"},
		Backup: config.BackupConfig{
			Path:          filepath.Join(dir, "backups"),
			RetentionDays: 7,
			Upload:        true,
		},
	}
}

func newBackupContainer(t *testing.T, cfg *config.Config, opts ...Option) *Container {
	t.Helper()
	opts = append(opts,
		WithRegistry(prometheus.NewRegistry()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	c, err := NewContainer(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBackup_CreatesAndUploadsSnapshot(t *testing.T) {
	files := storage.NewMemory()
	c := newBackupContainer(t, backupConfig(t), WithFileStorage(files))

	path, err := c.Backup(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, filepath.Base(path), "city.db.backup-")

	names := files.Names()
	require.Len(t, names, 1)
	assert.True(t, strings.HasPrefix(names[0], "backup_"), names[0])
	assert.True(t, strings.HasSuffix(names[0], ".db"), names[0])
}

func TestBackup_NoUploadWhenDisabled(t *testing.T) {
	cfg := backupConfig(t)
	cfg.Backup.Upload = false
	files := storage.NewMemory()
	c := newBackupContainer(t, cfg, WithFileStorage(files))

	_, err := c.Backup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files.Names())
}

func TestBackup_Unsupported(t *testing.T) {
	c := newBackupContainer(t, backupConfig(t), WithDocumentStore(memory.NewDocumentStore()))

	_, err := c.Backup(context.Background())
	assert.ErrorIs(t, err, ErrBackupUnsupported)
}

func TestCleanOldBackups(t *testing.T) {
	cfg := backupConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Backup.Path, 0o755))

	old := filepath.Join(cfg.Backup.Path, "city.db.backup-20240101-000000.db")
	recent := filepath.Join(cfg.Backup.Path, "city.db.backup-20990101-000000.db")
	unrelated := filepath.Join(cfg.Backup.Path, "notes.txt")
	for _, p := range []string{old, recent, unrelated} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, stale, stale))
	require.NoError(t, os.Chtimes(unrelated, stale, stale))

	c := &Container{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, c.cleanOldBackups())

	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)
	assert.FileExists(t, unrelated)
}

func TestCleanOldBackups_ZeroRetentionKeepsAll(t *testing.T) {
	cfg := backupConfig(t)
	cfg.Backup.RetentionDays = 0
	c := &Container{Config: cfg, Logger: slog.Default()}
	assert.NoError(t, c.cleanOldBackups())
}
