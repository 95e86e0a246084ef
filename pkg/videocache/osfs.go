package videocache

import (
	"errors"
	"io/fs"
	"os"

	"github.com/weberc2/reels/pkg/types"
)

// OSFileSystem implements types.FileSystem on the local disk. Move is a
// rename, so it replaces an existing destination atomically as long as
// source and destination share a filesystem, which holds because
// downloads are staged inside the cache directory.
type OSFileSystem struct{}

var _ types.FileSystem = OSFileSystem{}

func (OSFileSystem) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (OSFileSystem) Move(src, dst string) error {
	return os.Rename(src, dst)
}

func (OSFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
