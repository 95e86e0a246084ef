package testsupport

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/weberc2/reels/pkg/types"
)

// FileSystemFake is a types.FileSystem on the real disk whose MkdirAll and
// Move can be made to fail. Move failures are keyed by destination path.
type FileSystemFake struct {
	MkdirAllErr error
	MoveErrs    map[string]error

	lock    sync.Mutex
	removed []string
}

var _ types.FileSystem = (*FileSystemFake)(nil)

func (fsf *FileSystemFake) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fsf *FileSystemFake) MkdirAll(path string) error {
	if fsf.MkdirAllErr != nil {
		return fsf.MkdirAllErr
	}
	return os.MkdirAll(path, 0755)
}

func (fsf *FileSystemFake) Move(src, dst string) error {
	if err := fsf.MoveErrs[dst]; err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func (fsf *FileSystemFake) Remove(path string) error {
	fsf.lock.Lock()
	fsf.removed = append(fsf.removed, path)
	fsf.lock.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Removed returns every path passed to Remove, in order.
func (fsf *FileSystemFake) Removed() []string {
	fsf.lock.Lock()
	defer fsf.lock.Unlock()
	out := make([]string, len(fsf.removed))
	copy(out, fsf.removed)
	return out
}
