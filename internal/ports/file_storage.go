package ports

import (
	"context"
	"io"
)

// FileStorage keeps uploaded binaries / Conserve les fichiers téléversés
type FileStorage interface {
	// Store saves the payload and returns the stored name <prefix>_<unixMillis><ext>
	Store(ctx context.Context, prefix, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
