package types

import (
	"context"
	"strings"
	"time"
)

// NormalizeContainer returns container with exactly one trailing slash, so
// `videos`, `videos/` and `videos//` all name the same listing prefix. The
// empty container (the bucket root) is returned unchanged.
func NormalizeContainer(container string) string {
	trimmed := strings.TrimRight(container, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}

// BlobRef identifies a single listed blob. Name is the key relative to the
// listed container; Key is the full key in the backing store.
type BlobRef struct {
	Name string
	Key  string
}

type BlobMetadata struct {
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

type BlobStore interface {
	// List returns every blob in the container, in the store's listing
	// order. Implementations must drain all pages before returning.
	List(ctx context.Context, container string) ([]BlobRef, error)
	ResolveDownloadURL(ctx context.Context, ref BlobRef) (string, error)
	Metadata(ctx context.Context, ref BlobRef) (BlobMetadata, error)
}

type Downloader interface {
	// Download fetches url into a new temporary file inside dir and
	// returns the temporary file's path. The caller owns the file.
	Download(ctx context.Context, url, dir string) (string, error)
}

type FileSystem interface {
	Exists(path string) (bool, error)
	MkdirAll(path string) error

	// Move renames src to dst, replacing any existing file at dst
	// atomically.
	Move(src, dst string) error
	Remove(path string) error
}
