package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
)

// ErrBackupUnsupported is returned for databases VACUUM INTO cannot copy
var ErrBackupUnsupported = errors.New("backup only supported for file-backed sqlite")

// startBackupRoutine starts automatic backup routine / Démarre la routine de backup automatique
func (c *Container) startBackupRoutine(ctx context.Context) {
	go func() {
		c.Metrics.SetBackgroundTaskStatus("database_backup", true)
		ticker := time.NewTicker(c.Config.Backup.Interval)
		defer ticker.Stop()

		c.Logger.Info("automatic database backup enabled",
			"interval", c.Config.Backup.Interval,
			"retention_days", c.Config.Backup.RetentionDays,
			"upload", c.Config.Backup.Upload,
		)

		for {
			select {
			case <-ticker.C:
				if _, err := c.Backup(ctx); err != nil {
					c.Logger.Error("backup failed", "error", err)
				}
				if err := c.cleanOldBackups(); err != nil {
					c.Logger.Error("backup cleanup failed", "error", err)
				}
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus("database_backup", false)
				c.Logger.Info("backup goroutine stopped")
				return
			}
		}
	}()
}

// Backup snapshots the sqlite database and optionally uploads it / Sauvegarde la base sqlite et la téléverse si demandé
// It returns the local path of the snapshot.
func (c *Container) Backup(ctx context.Context) (string, error) {
	path, err := c.performBackup(ctx)
	if err != nil {
		return "", err
	}
	if c.Config.Backup.Upload && c.Files != nil {
		if err := c.uploadBackup(ctx, path); err != nil {
			return path, err
		}
	}
	return path, nil
}

// performBackup creates database backup / Crée un backup de la base de données
func (c *Container) performBackup(ctx context.Context) (string, error) {
	if c.DB == nil || db.ParseDatabaseType(c.Config.Database.Type) != db.SQLite {
		return "", ErrBackupUnsupported
	}

	dbName := c.Config.Database.DSN
	if idx := strings.Index(dbName, "?"); idx > 0 {
		dbName = dbName[:idx]
	}
	dbName = strings.TrimPrefix(dbName, "file:")
	if dbName == "" || dbName == ":memory:" {
		return "", fmt.Errorf("%w: in-memory database", ErrBackupUnsupported)
	}

	if err := os.MkdirAll(c.Config.Backup.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	backupFilename := fmt.Sprintf("%s.backup-%s.db", filepath.Base(dbName), timestamp)
	backupPath := filepath.Join(c.Config.Backup.Path, backupFilename)

	// VACUUM INTO requires SQLite 3.27+
	if _, err := c.DB.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("backup execution failed: %w", err)
	}

	c.Logger.Info("database backup created", "path", backupPath)
	return backupPath, nil
}

// uploadBackup copies a snapshot into file storage / Copie la sauvegarde dans le stockage
func (c *Container) uploadBackup(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	name, err := c.Files.Store(ctx, "backup", filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	c.Logger.Info("database backup uploaded", "name", name)
	return nil
}

// cleanOldBackups removes old backups / Supprime les anciens backups
func (c *Container) cleanOldBackups() error {
	if c.Config.Backup.RetentionDays <= 0 {
		return nil
	}

	cutoffTime := time.Now().AddDate(0, 0, -c.Config.Backup.RetentionDays)

	entries, err := os.ReadDir(c.Config.Backup.Path)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	deletedCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.Contains(entry.Name(), ".backup-") || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			c.Logger.Warn("backup stat failed", "file", entry.Name(), "error", err)
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			if err := os.Remove(filepath.Join(c.Config.Backup.Path, entry.Name())); err != nil {
				c.Logger.Warn("old backup not deleted", "file", entry.Name(), "error", err)
				continue
			}
			deletedCount++
		}
	}

	if deletedCount > 0 {
		c.Logger.Info("old backups removed", "count", deletedCount)
	}
	return nil
}
