package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/weberc2/reels/pkg/types"
)

// HTTPDownloader fetches (typically presigned) URLs into temporary files
// named `.download-<uuid>` inside the target directory.
type HTTPDownloader struct {
	HTTP http.Client
}

var _ types.Downloader = (*HTTPDownloader)(nil)

func DefaultDownloader() HTTPDownloader {
	return HTTPDownloader{HTTP: http.Client{Timeout: 10 * time.Minute}}
}

func (d *HTTPDownloader) Download(
	ctx context.Context,
	url string,
	dir string,
) (path string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("downloading: building request: %w", err)
	}

	rsp, err := d.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"download response status: wanted `200`; found `%d`",
			rsp.StatusCode,
		)
	}

	path = filepath.Join(dir, ".download-"+uuid.NewString())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("downloading: creating temp file: %w", err)
	}

	if _, err = io.Copy(f, rsp.Body); err != nil {
		err = errors.Join(
			fmt.Errorf("downloading: writing temp file: %w", err),
			f.Close(),
			os.Remove(path),
		)
		return "", err
	}

	if err = f.Close(); err != nil {
		err = errors.Join(
			fmt.Errorf("downloading: closing temp file: %w", err),
			os.Remove(path),
		)
		return "", err
	}

	return path, nil
}
