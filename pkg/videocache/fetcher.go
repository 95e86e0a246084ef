package videocache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/types"
)

const (
	DefaultContainer        = "videos/"
	DefaultOperationTimeout = 30 * time.Second
)

// Fetcher mirrors a remote container of videos into a local cache
// directory and publishes the resolved records, in listing order, to
// Videos.
type Fetcher struct {
	Store      types.BlobStore
	Downloader types.Downloader
	FS         types.FileSystem
	Videos     observable.Collection[types.VideoRecord]
	Logger     *slog.Logger

	// Container is the listing prefix; it defaults to DefaultContainer.
	Container string
	CacheDir  string

	// OperationTimeout bounds each individual network operation. It
	// defaults to DefaultOperationTimeout.
	OperationTimeout time.Duration

	TimeFunc func() time.Time

	fetching  atomic.Bool
	statsLock sync.Mutex
	stats     Stats
}

type Stats struct {
	Listed     int
	Cached     int
	Downloaded int
	Skipped    int
}

// FetchAll runs a single fetch pass. The published collection is cleared
// once the listing succeeds and then grows one record at a time. Failures
// affecting a single blob are logged and the blob is skipped; only a
// listing failure (or cancellation of ctx) is returned, alongside whatever
// records were collected before it.
func (f *Fetcher) FetchAll(ctx context.Context) ([]types.VideoRecord, error) {
	if !f.fetching.CompareAndSwap(false, true) {
		return nil, types.ErrFetchInProgress
	}
	defer f.fetching.Store(false)

	logger := f.logger()
	f.EnsureCacheDir()

	container := f.container()
	listCtx, cancel := context.WithTimeout(ctx, f.timeout())
	refs, err := f.Store.List(listCtx, container)
	cancel()
	if err != nil {
		return nil, fmt.Errorf(
			"fetching videos: %w",
			&types.ListingErr{Container: container, Err: err},
		)
	}

	f.Videos.Clear()

	stats := Stats{Listed: len(refs)}
	defer func() { f.setStats(stats) }()

	records := make([]types.VideoRecord, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("fetching videos: %w", err)
		}

		record, cached, err := f.fetchOne(ctx, ref)
		if err != nil {
			stats.Skipped++
			logger.Error(
				"skipping video",
				"err", err.Error(),
				"blob", ref.Name,
			)
			continue
		}

		if cached {
			stats.Cached++
		} else {
			stats.Downloaded++
		}
		records = append(records, record)
		f.Videos.Append(record)
	}

	logger.Info(
		"fetched videos",
		"listed", stats.Listed,
		"cached", stats.Cached,
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
	)
	return records, nil
}

func (f *Fetcher) fetchOne(
	ctx context.Context,
	ref types.BlobRef,
) (record types.VideoRecord, cached bool, err error) {
	url, err := withTimeout(ctx, f.timeout(), func(ctx context.Context) (string, error) {
		return f.Store.ResolveDownloadURL(ctx, ref)
	})
	if err != nil {
		err = &types.ResolutionErr{Blob: ref.Name, Err: err}
		return
	}

	metadata, err := withTimeout(ctx, f.timeout(), func(ctx context.Context) (types.BlobMetadata, error) {
		return f.Store.Metadata(ctx, ref)
	})
	if err != nil {
		err = &types.ResolutionErr{Blob: ref.Name, Err: err}
		return
	}

	localPath, err := f.LocalPath(ref.Name)
	if err != nil {
		return
	}

	if cached, err = f.FS.Exists(localPath); err != nil {
		err = &types.FilesystemErr{Op: "checking cache for", Path: localPath, Err: err}
		return
	}

	if cached {
		f.logger().Debug("video already cached", "blob", ref.Name)
	} else if err = f.download(ctx, ref, url, localPath); err != nil {
		return
	}

	record = types.VideoRecord{
		ID:          types.VideoID(ref.Name),
		LocalPath:   localPath,
		RemoteURL:   url,
		Name:        ref.Name,
		Size:        metadata.Size,
		ContentType: metadata.ContentType,
		CreatedAt:   metadata.CreatedAt,
	}
	if record.ContentType == "" {
		record.ContentType = types.DefaultContentType
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = f.now()
	}
	return
}

func (f *Fetcher) download(
	ctx context.Context,
	ref types.BlobRef,
	url string,
	localPath string,
) error {
	logger := f.logger()
	logger.Info("downloading video", "blob", ref.Name)

	// blob names may contain separators, so the parent isn't necessarily
	// the cache directory itself
	if dir := filepath.Dir(localPath); dir != filepath.Clean(f.CacheDir) {
		if err := f.FS.MkdirAll(dir); err != nil {
			return &types.FilesystemErr{Op: "creating directory", Path: dir, Err: err}
		}
	}

	temp, err := withTimeout(ctx, f.timeout(), func(ctx context.Context) (string, error) {
		return f.Downloader.Download(ctx, url, f.CacheDir)
	})
	if err != nil {
		return &types.DownloadErr{Blob: ref.Name, URL: url, Err: err}
	}

	if err := f.FS.Move(temp, localPath); err != nil {
		return errors.Join(
			&types.FilesystemErr{Op: "moving download into", Path: localPath, Err: err},
			f.FS.Remove(temp),
		)
	}

	logger.Info("downloaded video", "blob", ref.Name, "path", localPath)
	return nil
}

// LocalPath returns the cache path for a blob name. Names that would
// resolve outside of the cache directory are rejected.
func (f *Fetcher) LocalPath(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", &types.FilesystemErr{
			Op:   "resolving cache path for",
			Path: name,
			Err:  errors.New("blob name escapes the cache directory"),
		}
	}
	return filepath.Join(f.CacheDir, name), nil
}

// EnsureCacheDir creates the cache directory and its parents. Failure is
// logged but otherwise ignored; later writes will report their own errors.
func (f *Fetcher) EnsureCacheDir() {
	if err := f.FS.MkdirAll(f.CacheDir); err != nil {
		f.logger().Error(
			"creating cache directory",
			"err", err.Error(),
			"dir", f.CacheDir,
		)
	}
}

// Stats returns the counters from the most recently completed pass.
func (f *Fetcher) Stats() Stats {
	f.statsLock.Lock()
	defer f.statsLock.Unlock()
	return f.stats
}

func (f *Fetcher) setStats(stats Stats) {
	f.statsLock.Lock()
	f.stats = stats
	f.statsLock.Unlock()
}

func (f *Fetcher) container() string {
	if container := types.NormalizeContainer(f.Container); container != "" {
		return container
	}
	return DefaultContainer
}

func (f *Fetcher) timeout() time.Duration {
	if f.OperationTimeout <= 0 {
		return DefaultOperationTimeout
	}
	return f.OperationTimeout
}

func (f *Fetcher) now() time.Time {
	if f.TimeFunc == nil {
		return time.Now()
	}
	return f.TimeFunc()
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

func withTimeout[T any](
	ctx context.Context,
	timeout time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
