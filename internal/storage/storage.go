// Package storage keeps uploaded files on the local disk, in S3 or in memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

// ErrNotFound is returned when a stored name does not exist / Retourné quand le fichier n'existe pas
var ErrNotFound = errors.New("stored file not found")

// ErrInvalidName rejects names escaping the storage root
var ErrInvalidName = errors.New("invalid stored file name")

// ObjectName builds <prefix>_<unixMillis><ext> / Construit le nom stocké
func ObjectName(prefix, originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	return prefix + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ext
}

// validName accepts flat names only
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// New builds the configured driver / Construit le driver configuré
func New(ctx context.Context, cfg config.StorageConfig) (ports.FileStorage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "fs":
		return NewFS(cfg.Path)
	case "memory":
		return NewMemory(), nil
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
