package types

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchInProgress is returned by a fetch that was rejected because
	// another fetch against the same collection hadn't finished.
	ErrFetchInProgress = errors.New("fetch already in progress")
)

type ObjectNotFoundErr struct {
	Bucket string
	Key    string
}

func (err *ObjectNotFoundErr) Error() string {
	return fmt.Sprintf(
		"object not found (bucket=%s) (key=%s)",
		err.Bucket,
		err.Key,
	)
}

// ListingErr means the container couldn't be listed. It aborts the whole
// fetch pass.
type ListingErr struct {
	Container string
	Err       error
}

func (err *ListingErr) Error() string {
	return fmt.Sprintf("listing container `%s`: %v", err.Container, err.Err)
}

func (err *ListingErr) Unwrap() error { return err.Err }

func AsListingErr(err error) (e *ListingErr) {
	errors.As(err, &e)
	return
}

// ResolutionErr means the download URL or the metadata for a single blob
// couldn't be resolved.
type ResolutionErr struct {
	Blob string
	Err  error
}

func (err *ResolutionErr) Error() string {
	return fmt.Sprintf("resolving blob `%s`: %v", err.Blob, err.Err)
}

func (err *ResolutionErr) Unwrap() error { return err.Err }

func AsResolutionErr(err error) (e *ResolutionErr) {
	errors.As(err, &e)
	return
}

type DownloadErr struct {
	Blob string
	URL  string
	Err  error
}

func (err *DownloadErr) Error() string {
	return fmt.Sprintf(
		"downloading blob `%s` from `%s`: %v",
		err.Blob,
		err.URL,
		err.Err,
	)
}

func (err *DownloadErr) Unwrap() error { return err.Err }

func AsDownloadErr(err error) (e *DownloadErr) {
	errors.As(err, &e)
	return
}

type FilesystemErr struct {
	Op   string
	Path string
	Err  error
}

func (err *FilesystemErr) Error() string {
	return fmt.Sprintf("%s `%s`: %v", err.Op, err.Path, err.Err)
}

func (err *FilesystemErr) Unwrap() error { return err.Err }

func AsFilesystemErr(err error) (e *FilesystemErr) {
	errors.As(err, &e)
	return
}
