package testsupport

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/weberc2/reels/pkg/types"
)

type BlobFake struct {
	Name        string
	Data        []byte
	ContentType string
	CreatedAt   time.Time

	ResolveErr  error
	MetadataErr error
}

// BlobStoreFake is an in-memory types.BlobStore. Blobs are listed in slice
// order under every container.
type BlobStoreFake struct {
	Bucket  string
	Blobs   []BlobFake
	ListErr error

	lock  sync.Mutex
	lists int
}

var _ types.BlobStore = (*BlobStoreFake)(nil)

func (bsf *BlobStoreFake) List(
	ctx context.Context,
	container string,
) ([]types.BlobRef, error) {
	bsf.lock.Lock()
	bsf.lists++
	bsf.lock.Unlock()

	if bsf.ListErr != nil {
		return nil, bsf.ListErr
	}
	refs := make([]types.BlobRef, len(bsf.Blobs))
	for i := range bsf.Blobs {
		refs[i] = types.BlobRef{
			Name: bsf.Blobs[i].Name,
			Key:  container + bsf.Blobs[i].Name,
		}
	}
	return refs, nil
}

func (bsf *BlobStoreFake) ResolveDownloadURL(
	ctx context.Context,
	ref types.BlobRef,
) (string, error) {
	blob, err := bsf.find(ref)
	if err != nil {
		return "", err
	}
	if blob.ResolveErr != nil {
		return "", blob.ResolveErr
	}
	return bsf.URL(ref.Key), nil
}

func (bsf *BlobStoreFake) Metadata(
	ctx context.Context,
	ref types.BlobRef,
) (types.BlobMetadata, error) {
	blob, err := bsf.find(ref)
	if err != nil {
		return types.BlobMetadata{}, err
	}
	if blob.MetadataErr != nil {
		return types.BlobMetadata{}, blob.MetadataErr
	}
	return types.BlobMetadata{
		Size:        int64(len(blob.Data)),
		ContentType: blob.ContentType,
		CreatedAt:   blob.CreatedAt,
	}, nil
}

// URL is the download URL the fake resolves for key.
func (bsf *BlobStoreFake) URL(key string) string {
	return fmt.Sprintf("fake://%s/%s", bsf.Bucket, key)
}

func (bsf *BlobStoreFake) Lists() int {
	bsf.lock.Lock()
	defer bsf.lock.Unlock()
	return bsf.lists
}

func (bsf *BlobStoreFake) find(ref types.BlobRef) (*BlobFake, error) {
	for i := range bsf.Blobs {
		if bsf.Blobs[i].Name == ref.Name {
			return &bsf.Blobs[i], nil
		}
	}
	return nil, &types.ObjectNotFoundErr{Bucket: bsf.Bucket, Key: ref.Key}
}

func (bsf *BlobStoreFake) data(url string) ([]byte, bool) {
	for i := range bsf.Blobs {
		if strings.HasSuffix(url, "/"+bsf.Blobs[i].Name) {
			return bsf.Blobs[i].Data, true
		}
	}
	return nil, false
}

// DownloaderFake serves downloads for URLs resolved by Store and records
// every call.
type DownloaderFake struct {
	Store *BlobStoreFake
	Errs  map[string]error

	// Block, when non-nil, is received from before each download.
	Block chan struct{}

	lock  sync.Mutex
	calls []string
}

var _ types.Downloader = (*DownloaderFake)(nil)

func (df *DownloaderFake) Download(
	ctx context.Context,
	url string,
	dir string,
) (string, error) {
	df.lock.Lock()
	df.calls = append(df.calls, url)
	df.lock.Unlock()

	if df.Block != nil {
		select {
		case <-df.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err := df.Errs[url]; err != nil {
		return "", err
	}

	data, found := df.Store.data(url)
	if !found {
		return "", fmt.Errorf("downloading `%s`: not found", url)
	}

	f, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func (df *DownloaderFake) Calls() []string {
	df.lock.Lock()
	defer df.lock.Unlock()
	out := make([]string, len(df.calls))
	copy(out, df.calls)
	return out
}
