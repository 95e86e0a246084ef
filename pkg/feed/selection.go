package feed

import (
	"sync"

	"github.com/weberc2/reels/pkg/types"
)

// Selection is a cursor into the ordered video collection. The index always
// lies in [0, len) while the collection is non-empty.
type Selection struct {
	lock   sync.Mutex
	videos []types.VideoRecord
	index  int
}

// SetVideos replaces the collection. If it shrank below the cursor, the
// cursor moves to the last video.
func (s *Selection) SetVideos(videos []types.VideoRecord) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.videos = videos
	if s.index >= len(videos) {
		s.index = max(len(videos)-1, 0)
	}
}

// Advance moves to the next video, wrapping to the first. It's a no-op for
// an empty collection.
func (s *Selection) Advance() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.videos) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.videos)
}

// Retreat moves to the previous video, wrapping to the last. It's a no-op
// for an empty collection.
func (s *Selection) Retreat() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.videos) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.videos)) % len(s.videos)
}

func (s *Selection) Index() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.index
}

func (s *Selection) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.videos)
}

func (s *Selection) Current() (types.VideoRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.videos) == 0 {
		return types.VideoRecord{}, false
	}
	return s.videos[s.index], true
}
