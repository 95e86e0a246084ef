package playback

import "time"

// Item is a single piece of media that can be installed in a Player.
type Item interface {
	URL() string

	// OnEnd registers fn to run each time playback of this particular
	// item reaches its end. The returned function deregisters fn.
	// Implementations must not invoke fn from inside a Player method.
	OnEnd(fn func()) (cancel func())
}

// Player is the media player a Controller drives.
type Player interface {
	NewItem(url string) Item
	Replace(item Item)
	Play()
	Pause()
	Seek(to time.Duration)
	SetMuted(muted bool)
}
