package types

import (
	"fmt"
	"time"
)

// DefaultContentType is assumed for blobs whose metadata doesn't carry a
// content type.
const DefaultContentType = "video/mp4"

type VideoID string

// VideoRecord is a remote video that has been resolved and is present in
// the local cache. Records are never mutated after creation.
type VideoRecord struct {
	ID          VideoID   `json:"id"`
	LocalPath   string    `json:"localPath"`
	RemoteURL   string    `json:"remoteURL"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (wanted *VideoRecord) Compare(found *VideoRecord) error {
	if wanted == found {
		return nil
	}

	if wanted == nil && found != nil {
		return fmt.Errorf("wanted `nil`; found not-nil")
	}

	if wanted != nil && found == nil {
		return fmt.Errorf("wanted not-nil; found `nil`")
	}

	if wanted.ID != found.ID {
		return fmt.Errorf(
			"VideoRecord.ID: wanted `%s`; found `%s`",
			wanted.ID,
			found.ID,
		)
	}

	if wanted.LocalPath != found.LocalPath {
		return fmt.Errorf(
			"VideoRecord.LocalPath: wanted `%s`; found `%s`",
			wanted.LocalPath,
			found.LocalPath,
		)
	}

	if wanted.RemoteURL != found.RemoteURL {
		return fmt.Errorf(
			"VideoRecord.RemoteURL: wanted `%s`; found `%s`",
			wanted.RemoteURL,
			found.RemoteURL,
		)
	}

	if wanted.Name != found.Name {
		return fmt.Errorf(
			"VideoRecord.Name: wanted `%s`; found `%s`",
			wanted.Name,
			found.Name,
		)
	}

	if wanted.Size != found.Size {
		return fmt.Errorf(
			"VideoRecord.Size: wanted `%d`; found `%d`",
			wanted.Size,
			found.Size,
		)
	}

	if wanted.ContentType != found.ContentType {
		return fmt.Errorf(
			"VideoRecord.ContentType: wanted `%s`; found `%s`",
			wanted.ContentType,
			found.ContentType,
		)
	}

	if !wanted.CreatedAt.Equal(found.CreatedAt) {
		return fmt.Errorf(
			"VideoRecord.CreatedAt: wanted `%s`; found `%s`",
			wanted.CreatedAt,
			found.CreatedAt,
		)
	}

	return nil
}

// CompareVideoRecords compares two collections element-wise, including
// their order.
func CompareVideoRecords(wanted, found []VideoRecord) error {
	if len(wanted) != len(found) {
		return fmt.Errorf(
			"len([]VideoRecord): wanted `%d`; found `%d`",
			len(wanted),
			len(found),
		)
	}

	for i := range wanted {
		if err := wanted[i].Compare(&found[i]); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}

	return nil
}
